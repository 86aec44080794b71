package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type LogConfig struct {
	Level     string
	Format    string
	Component string
	Source    bool
}

type Config struct {
	App struct {
		ENV string
	}

	Log LogConfig

	DB struct {
		Driver     string // mysql | sqlite
		DSN        string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		SQLitePath string
		LogSQL     bool
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Cache struct {
		FollowerTTL time.Duration
	}

	GRPC struct {
		Host string
		Port string
	}

	Admin struct {
		Addr string
	}
}

func New() *Config {
	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "production")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "vidrec")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.LogSQL = isTruthy(os.Getenv("DB_LOG_SQL"))
	cfg.DB.SQLitePath = getEnvDefault("SQLITE_PATH", "vidrec.db")
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.Driver == "sqlite" {
		cfg.DB.DSN = cfg.DB.SQLitePath
	} else if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "vidrec")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	cfg.Cache.FollowerTTL = time.Hour
	if ttl, err := time.ParseDuration(getEnvDefault("CACHE_FOLLOWER_TTL", "1h")); err == nil && ttl > 0 {
		cfg.Cache.FollowerTTL = ttl
	}

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// metrics + health
	cfg.Admin.Addr = getEnvDefault("ADMIN_ADDR", "127.0.0.1:9090")

	return cfg
}

// GRPCAddr joins host and port of the gRPC listener.
func (c *Config) GRPCAddr() string {
	return c.GRPC.Host + ":" + c.GRPC.Port
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
