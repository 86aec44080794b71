package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("CACHE_FOLLOWER_TTL", "")

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "root:root@tcp(localhost:3306)/vidrec?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN)
	assert.Equal(t, time.Hour, cfg.Cache.FollowerTTL)
	assert.Equal(t, "127.0.0.1:50051", cfg.GRPCAddr())
}

func TestNew_SQLiteDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/vidrec-test.db")

	cfg := New()

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/vidrec-test.db", cfg.DB.DSN)
}

func TestNew_InvalidTTLKeepsDefault(t *testing.T) {
	t.Setenv("CACHE_FOLLOWER_TTL", "soon")

	cfg := New()

	assert.Equal(t, time.Hour, cfg.Cache.FollowerTTL)
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		assert.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "nope"} {
		assert.False(t, isTruthy(v), v)
	}
}
