package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"getunitycodes/internal/cache"
	"getunitycodes/internal/config"
	"getunitycodes/internal/database"
	"getunitycodes/internal/events"
	"getunitycodes/internal/mailer"
	"getunitycodes/internal/search"
	"getunitycodes/internal/storage"
	"getunitycodes/internal/worker"
)

func restoreGlobals() {
	loadConfig = config.Load
	newPgxPool = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn = database.RollbackAll
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool = worker.NewPool
	newPublisher = func(brokers string) (events.Publisher, error) { return events.NewKafkaPublisher(brokers) }
	newSearchIndex = openSearchIndex
	newMailer = func(cfg mailer.Config) (mailer.Mailer, error) { return mailer.NewSMTPMailer(cfg) }
	newUploader = func(dir string) (storage.Uploader, error) { return storage.NewDiskUploader(dir) }
	exitFunc = func(code int) {}
}

func baseConfig() config.Config {
	return config.Config{
		DatabaseURL:   "db",
		RedisAddr:     "127",
		RedisPassword: "pw",
		RedisDB:       1,
		JWTSecret:     "secret",
		WorkerCount:   2,
		HTTPAddr:      ":9090",
		UploadDir:     "uploads",
	}
}

// stubAll 把所有外部依賴換成 fake
func stubAll(cfg config.Config) {
	loadConfig = func() (config.Config, error) { return cfg, nil }
	newPgxPool = func(context.Context, string) (database.DB, error) { return &database.FakeDB{}, nil }
	newRedisClient = func(string, string, int) (cache.Cache, error) { return &cache.FakeCache{}, nil }
	runMigrationsFn = func(string) error { return nil }
	rollbackAllFn = func(string) error { return errors.New("rollback without MIGRATE_RESET") }
	newWorkerPool = func(int) worker.Pool { return &worker.FakePool{} }
	newUploader = func(string) (storage.Uploader, error) { return &storage.FakeUploader{}, nil }
	startServer = func(*echo.Echo, string) error { return nil }
}

func TestCustomValidator(t *testing.T) {
	cv := &CustomValidator{validator: validator.New()}
	type s struct {
		Name string `validate:"required"`
	}
	require.NoError(t, cv.Validate(&s{Name: "ok"}))
	require.Error(t, cv.Validate(&s{}))
}

func TestRunSuccess(t *testing.T) {
	t.Cleanup(restoreGlobals)
	called := make(map[string]bool)
	stubAll(baseConfig())
	newPgxPool = func(ctx context.Context, url string) (database.DB, error) {
		called["pgx"] = true
		require.Equal(t, "db", url)
		return &database.FakeDB{CloseFn: func() { called["dbClose"] = true }}, nil
	}
	newRedisClient = func(addr, pwd string, db int) (cache.Cache, error) {
		called["redis"] = true
		require.Equal(t, "127", addr)
		require.Equal(t, "pw", pwd)
		require.Equal(t, 1, db)
		return &cache.FakeCache{CloseFn: func() error { called["redisClose"] = true; return nil }}, nil
	}
	runMigrationsFn = func(url string) error { called["migrate"] = true; return nil }
	newWorkerPool = func(n int) worker.Pool {
		require.Equal(t, 2, n)
		return &worker.FakePool{StopFn: func() { called["poolStop"] = true }}
	}
	newPublisher = func(string) (events.Publisher, error) {
		t.Fatal("kafka should not be used without KAFKA_BROKERS")
		return nil, nil
	}
	newSearchIndex = func(string) (search.Index, error) {
		t.Fatal("elasticsearch should not be used without ELASTICSEARCH_URL")
		return nil, nil
	}
	newMailer = func(mailer.Config) (mailer.Mailer, error) {
		t.Fatal("smtp should not be used without MAIL_HOST")
		return nil, nil
	}
	startServer = func(e *echo.Echo, addr string) error {
		called["start"] = true
		require.Equal(t, ":9090", addr)
		require.True(t, e.Debug)

		paths := map[string]bool{}
		uploads := false
		for _, r := range e.Routes() {
			paths[r.Method+" "+r.Path] = true
			if r.Method == http.MethodGet && strings.HasPrefix(r.Path, "/uploads") {
				uploads = true
			}
		}
		require.True(t, paths[http.MethodGet+" /api/ping"])
		require.True(t, paths[http.MethodGet+" /swagger/*"])
		require.True(t, uploads)
		return nil
	}

	require.NoError(t, run())
	for _, k := range []string{"pgx", "redis", "migrate", "start", "dbClose", "redisClose", "poolStop"} {
		require.True(t, called[k], k)
	}
}

func TestRunMigrateReset(t *testing.T) {
	t.Cleanup(restoreGlobals)
	cfg := baseConfig()
	cfg.MigrateReset = true
	stubAll(cfg)

	var order []string
	rollbackAllFn = func(url string) error {
		require.Equal(t, "db", url)
		order = append(order, "down")
		return nil
	}
	runMigrationsFn = func(string) error {
		order = append(order, "up")
		return nil
	}
	require.NoError(t, run())
	require.Equal(t, []string{"down", "up"}, order)

	rollbackAllFn = func(string) error { return errors.New("down") }
	require.ErrorContains(t, run(), "RollbackAll 失敗")
}

func TestRunOptionalBackends(t *testing.T) {
	t.Cleanup(restoreGlobals)
	cfg := baseConfig()
	cfg.KafkaBrokers = "k1:9092,k2:9092"
	cfg.ElasticURL = "http://es:9200"
	cfg.MailHost = "smtp.example.com"
	cfg.MailPort = 465
	cfg.MailUsername = "shop@example.com"
	cfg.Production = true
	stubAll(cfg)

	closed := false
	newPublisher = func(brokers string) (events.Publisher, error) {
		require.Equal(t, "k1:9092,k2:9092", brokers)
		return &closingPublisher{closed: &closed}, nil
	}
	newSearchIndex = func(addr string) (search.Index, error) {
		require.Equal(t, "http://es:9200", addr)
		return &search.FakeIndex{}, nil
	}
	newMailer = func(mc mailer.Config) (mailer.Mailer, error) {
		require.Equal(t, "smtp.example.com", mc.Host)
		require.Equal(t, 465, mc.Port)
		require.Equal(t, "shop@example.com", mc.Username)
		return &mailer.FakeMailer{}, nil
	}
	startServer = func(e *echo.Echo, _ string) error {
		require.False(t, e.Debug)
		return nil
	}

	require.NoError(t, run())
	require.True(t, closed)
}

type closingPublisher struct {
	events.FakePublisher
	closed *bool
}

func (p *closingPublisher) Close() error {
	*p.closed = true
	return errors.New("already closed")
}

func TestRunErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)

	loadConfig = func() (config.Config, error) {
		return config.Config{}, errors.New("環境變數 DATABASE_URL 未設定")
	}
	require.EqualError(t, run(), "環境變數 DATABASE_URL 未設定")

	stubAll(baseConfig())
	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("db") }
	require.ErrorContains(t, run(), "DB 連線失敗")

	stubAll(baseConfig())
	newRedisClient = func(string, string, int) (cache.Cache, error) { return nil, errors.New("redis") }
	require.ErrorContains(t, run(), "Redis 連線失敗")

	stubAll(baseConfig())
	runMigrationsFn = func(string) error { return errors.New("migrate") }
	require.ErrorContains(t, run(), "Migration 執行失敗")

	cfg := baseConfig()
	cfg.KafkaBrokers = "k:9092"
	stubAll(cfg)
	newPublisher = func(string) (events.Publisher, error) { return nil, errors.New("kafka") }
	require.ErrorContains(t, run(), "Kafka 連線失敗")

	cfg = baseConfig()
	cfg.ElasticURL = "http://es:9200"
	stubAll(cfg)
	newSearchIndex = func(string) (search.Index, error) { return nil, errors.New("es") }
	require.ErrorContains(t, run(), "Elasticsearch 連線失敗")

	cfg = baseConfig()
	cfg.MailHost = "smtp"
	stubAll(cfg)
	newMailer = func(mailer.Config) (mailer.Mailer, error) { return nil, errors.New("smtp") }
	require.ErrorContains(t, run(), "SMTP 設定失敗")

	stubAll(baseConfig())
	newUploader = func(string) (storage.Uploader, error) { return nil, errors.New("mkdir") }
	require.ErrorContains(t, run(), "上傳目錄建立失敗")

	stubAll(baseConfig())
	startServer = func(*echo.Echo, string) error { return errors.New("start") }
	require.EqualError(t, run(), "start")
}

func TestMainFunction(t *testing.T) {
	t.Cleanup(restoreGlobals)
	stubAll(baseConfig())
	exitCode := -1
	exitFunc = func(code int) { exitCode = code }
	main()
	require.Equal(t, -1, exitCode)
}

func TestMainExit(t *testing.T) {
	t.Cleanup(restoreGlobals)
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	stubAll(baseConfig())
	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("fail") }
	main()
	require.Equal(t, 1, exitCode)
}

func TestOpenSearchIndexUnreachable(t *testing.T) {
	_, err := openSearchIndex("http://127.0.0.1:1")
	require.ErrorContains(t, err, "EnsureIndex")
}
