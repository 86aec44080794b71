package db

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/vidrec/internal/config"
)

// NewDB opens the configured driver and migrates the schema.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case "mysql", "":
		dialector = mysql.Open(cfg.DB.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DB.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}

	logMode := logger.Warn
	if cfg.DB.LogSQL {
		logMode = logger.Info // log SQL queries
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate keeps the schema in sync with the models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Snapshot runs fn in one transaction so every read inside it sees the same
// committed state. On MySQL this is a read-only REPEATABLE READ transaction;
// SQLite transactions are already serializable.
func Snapshot(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn, snapshotOptions(db)...)
}

func snapshotOptions(db *gorm.DB) []*sql.TxOptions {
	if db.Dialector.Name() == "mysql" {
		return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
	}
	return nil
}

// RebuildFollowerIndex recomputes follower_index from follows. Must run inside
// the caller's transaction.
func RebuildFollowerIndex(tx *gorm.DB) error {
	if err := tx.Exec("DELETE FROM follower_index").Error; err != nil {
		return fmt.Errorf("clear follower index: %w", err)
	}
	err := tx.Exec(
		"INSERT INTO follower_index (user_id, follower_id) SELECT followee_id, follower_id FROM follows",
	).Error
	if err != nil {
		return fmt.Errorf("rebuild follower index: %w", err)
	}
	return nil
}
