package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName   string
	AppEnv    string
	AppPort   string
	AppURL    string
	AppLocale string

	// Database (optional: upload audit and user accounts)
	DBEnabled         bool
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUsername        string
	DBPassword        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Redis (optional: dataset sessions and report job status)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Sessions
	SessionTTL time.Duration

	// JWT
	JWTSecret        string
	JWTAccessExpire  time.Duration
	JWTRefreshExpire time.Duration

	// Upload and export
	UploadMaxSize int
	ExportPath    string

	// Worker
	WorkerConcurrency int

	// Asynq
	AsynqRedisAddr     string
	AsynqRedisPassword string
	AsynqRedisDB       int
}

func Load() (*Config, error) {
	// .env is optional; the second path covers running from cmd/web or cmd/worker
	_ = godotenv.Load()
	_ = godotenv.Load("../../.env")

	cfg := &Config{
		AppName:   getEnv("APP_NAME", "PO Range Analytics"),
		AppEnv:    getEnv("APP_ENV", "development"),
		AppPort:   getEnv("APP_PORT", "8080"),
		AppURL:    getEnv("APP_URL", "http://localhost:8080"),
		AppLocale: getEnv("APP_LOCALE", "id-ID"),

		DBEnabled:         getEnvAsBool("DB_ENABLED", false),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", "po_analytics"),
		DBUsername:        getEnv("DB_USERNAME", "root"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		SessionTTL: getEnvAsDuration("SESSION_TTL", 2*time.Hour),

		JWTSecret:        getEnv("JWT_SECRET", "change-this-secret-key"),
		JWTAccessExpire:  getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
		JWTRefreshExpire: getEnvAsDuration("JWT_REFRESH_EXPIRE", 168*time.Hour),

		UploadMaxSize: getEnvAsInt("UPLOAD_MAX_SIZE", 104857600), // 100MB
		ExportPath:    getEnv("EXPORT_PATH", "./storage/exports"),

		WorkerConcurrency: getEnvAsInt("WORKER_CONCURRENCY", 4),

		AsynqRedisAddr:     getEnv("ASYNQ_REDIS_ADDR", "127.0.0.1:6379"),
		AsynqRedisPassword: getEnv("ASYNQ_REDIS_PASSWORD", ""),
		AsynqRedisDB:       getEnvAsInt("ASYNQ_REDIS_DB", 0),
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.UploadMaxSize <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_SIZE must be positive, got %d", cfg.UploadMaxSize)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local",
		c.DBUsername,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBDatabase,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
