package app

import (
	"log/slog"
	"time"

	"github.com/oggyb/vidrec/internal/cache"
	"gorm.io/gorm"
)

// DefaultFollowerTTL is how long a cached follower count lives without reads.
const DefaultFollowerTTL = time.Hour

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	DB          *gorm.DB
	RedisCache  *cache.RedisCache
	Logger      *slog.Logger
	FollowerTTL time.Duration
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppContext{
		DB:          db,
		RedisCache:  rdb,
		Logger:      logger,
		FollowerTTL: DefaultFollowerTTL,
	}
}
