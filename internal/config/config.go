// Package config 從環境變數（可選 .env）讀取服務設定
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	WorkerCount   int
	HTTPAddr      string
	UploadDir     string
	KafkaBrokers  string
	ElasticURL    string
	Production    bool
	MigrateReset  bool

	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string
}

var (
	loadDotenv = godotenv.Load
	getenv     = os.Getenv
)

// Load 讀取 .env（存在時）後解析環境變數；已存在的環境變數不會被 .env 覆蓋
func Load() (Config, error) {
	if err := loadDotenv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("讀取 .env 失敗: %v", err)
	}

	cfg := Config{
		DatabaseURL:   getenv("DATABASE_URL"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		JWTSecret:     getenv("JWT_SECRET"),
		WorkerCount:   1,
		HTTPAddr:      withDefault(getenv("HTTP_ADDR"), ":8080"),
		UploadDir:     withDefault(getenv("UPLOAD_DIR"), "uploads"),
		KafkaBrokers:  getenv("KAFKA_BROKERS"),
		ElasticURL:    getenv("ELASTICSEARCH_URL"),
		Production:    strings.EqualFold(getenv("APP_ENV"), "production"),
		MigrateReset:  strings.EqualFold(getenv("MIGRATE_RESET"), "true"),
		MailHost:      getenv("MAIL_HOST"),
		MailUsername:  getenv("MAIL_USERNAME"),
		MailPassword:  getenv("MAIL_PASSWORD"),
		MailFrom:      getenv("MAIL_FROM"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	if cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	redisDBStr := getenv("REDIS_DB")
	if redisDBStr == "" {
		return Config{}, fmt.Errorf("環境變數 REDIS_DB 未設定")
	}
	idx, err := strconv.Atoi(redisDBStr)
	if err != nil {
		return Config{}, fmt.Errorf("無效的 REDIS_DB: %v", err)
	}
	cfg.RedisDB = idx

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}
	if cfg.MigrateReset && cfg.Production {
		return Config{}, fmt.Errorf("MIGRATE_RESET 不可在 production 使用")
	}

	if v := getenv("WORKER_COUNT"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil || c <= 0 {
			return Config{}, fmt.Errorf("無效的 WORKER_COUNT: %q", v)
		}
		cfg.WorkerCount = c
	}

	if v := getenv("MAIL_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 {
			return Config{}, fmt.Errorf("無效的 MAIL_PORT: %q", v)
		}
		cfg.MailPort = p
	}
	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
