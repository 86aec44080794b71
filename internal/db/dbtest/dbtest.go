// Package dbtest wires isolated storage for tests: a named in-memory SQLite
// database per test and a miniredis instance.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/vidrec/internal/cache"
	"github.com/oggyb/vidrec/internal/db"
)

var nameReplacer = strings.NewReplacer("/", "_", " ", "_", "#", "_")

// Open returns a migrated in-memory database private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", nameReplacer.Replace(t.Name()))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Redis starts a miniredis server for the lifetime of t.
func Redis(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &cache.RedisCache{Client: client}, mr
}

// Str returns a pointer to s, for optional columns.
func Str(s string) *string { return &s }
