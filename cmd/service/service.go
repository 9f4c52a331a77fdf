package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"getunitycodes/internal/cache"
	"getunitycodes/internal/config"
	"getunitycodes/internal/database"
	"getunitycodes/internal/events"
	"getunitycodes/internal/mailer"
	appmw "getunitycodes/internal/middleware"
	"getunitycodes/internal/router"
	"getunitycodes/internal/search"
	"getunitycodes/internal/storage"
	"getunitycodes/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "getunitycodes/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	newPublisher    = func(brokers string) (events.Publisher, error) { return events.NewKafkaPublisher(brokers) }
	newSearchIndex  = openSearchIndex
	newMailer       = func(cfg mailer.Config) (mailer.Mailer, error) { return mailer.NewSMTPMailer(cfg) }
	newUploader     = func(dir string) (storage.Uploader, error) { return storage.NewDiskUploader(dir) }
	exitFunc        = os.Exit
)

// openSearchIndex 連上 Elasticsearch 並確保 games 索引與 mapping 存在
func openSearchIndex(addr string) (search.Index, error) {
	idx, err := search.NewElasticIndex(addr, nil)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	redis, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer redis.Close()

	// MIGRATE_RESET=true 時先退回所有 migration 再重建
	if cfg.MigrateReset {
		log.Print("MIGRATE_RESET: rolling back all migrations")
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("RollbackAll 失敗: %v", err)
		}
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	var pub events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		pub, err = newPublisher(cfg.KafkaBrokers)
		if err != nil {
			return fmt.Errorf("Kafka 連線失敗: %v", err)
		}
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Printf("關閉 Kafka producer 失敗: %v", err)
		}
	}()

	var idx search.Index
	if cfg.ElasticURL != "" {
		idx, err = newSearchIndex(cfg.ElasticURL)
		if err != nil {
			return fmt.Errorf("Elasticsearch 連線失敗: %v", err)
		}
	}

	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.MailHost != "" {
		m, err = newMailer(mailer.Config{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			return fmt.Errorf("SMTP 設定失敗: %v", err)
		}
	}

	up, err := newUploader(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("上傳目錄建立失敗: %v", err)
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = appmw.ErrorHandler
	e.Debug = !cfg.Production
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, router.Deps{
		DB:            db,
		Cache:         redis,
		Uploads:       up,
		Events:        pub,
		Search:        idx,
		Mailer:        m,
		Jobs:          wp,
		SecureCookies: cfg.Production,
	})

	// 上傳的圖片
	e.Static("/uploads", cfg.UploadDir)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, cfg.HTTPAddr)
}
