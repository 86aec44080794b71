package db

import (
	"time"
)

// User is an account. Deletion is soft: IsDeleted rows never resolve as a
// credential and never appear in recommendations.
//
// QQ and Wechat are optional external handles; NULL when unset so the unique
// indexes only constrain accounts that actually carry one.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"size:64;not null"`
	Sex          string    `gorm:"size:8;not null"`
	Birthday     string    `gorm:"size:16"`
	Level        int       `gorm:"not null;default:0"`
	Sign         string    `gorm:"size:256"`
	Coin         int       `gorm:"not null;default:0"`
	Identity     string    `gorm:"size:16;not null;default:USER"`
	PasswordHash string    `gorm:"size:255;not null"`
	QQ           *string   `gorm:"column:qq;size:32;uniqueIndex"`
	Wechat       *string   `gorm:"size:64;uniqueIndex"`
	IsDeleted    bool      `gorm:"not null;default:false;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Follow is the primary follow relation: FollowerID follows FolloweeID.
//
// Composite PK: (FollowerID, FolloweeID)
//   - one row per ordered pair, so toggling is insert-or-delete.
type Follow struct {
	FollowerID uint64    `gorm:"primaryKey"`
	FolloweeID uint64    `gorm:"primaryKey;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// FollowerEntry is the reverse projection of Follow, keyed by the followed
// user. It is only ever written in the same transaction as the Follow row it
// mirrors, or rebuilt wholesale by RebuildFollowerIndex.
type FollowerEntry struct {
	UserID     uint64 `gorm:"primaryKey"`
	FollowerID uint64 `gorm:"primaryKey;index"`
}

func (FollowerEntry) TableName() string { return "follower_index" }

// Video metadata. Duration is in seconds.
type Video struct {
	BV         string  `gorm:"primaryKey;size:32"`
	OwnerID    uint64  `gorm:"not null;index"`
	Title      string  `gorm:"size:256;not null"`
	Duration   float64 `gorm:"not null"`
	PublicTime *time.Time
	ReviewTime *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// ViewRecord is one view event per (user, video). Progress is the watched
// position in seconds.
//
// Indexes:
//   - idx_view_bv_mid(bv, mid) is unique; it also serves shared-viewer joins
//     and per-video aggregates.
//   - idx_view_mid(mid) serves "what did this user watch".
type ViewRecord struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	BV       string    `gorm:"size:32;not null;uniqueIndex:idx_view_bv_mid,priority:1"`
	MID      uint64    `gorm:"column:mid;not null;uniqueIndex:idx_view_bv_mid,priority:2;index:idx_view_mid"`
	Progress float64   `gorm:"not null;default:0"`
	ViewedAt time.Time `gorm:"autoCreateTime"`
}

// Like, Coin and Favorite are one row per (user, video).
type Like struct {
	MID uint64 `gorm:"column:mid;primaryKey"`
	BV  string `gorm:"primaryKey;size:32;index"`
}

type Coin struct {
	MID uint64 `gorm:"column:mid;primaryKey"`
	BV  string `gorm:"primaryKey;size:32;index"`
}

type Favorite struct {
	MID uint64 `gorm:"column:mid;primaryKey"`
	BV  string `gorm:"primaryKey;size:32;index"`
}

// Danmu is a timed comment. A viewer may post any number per video.
type Danmu struct {
	ID      uint64  `gorm:"primaryKey;autoIncrement"`
	BV      string  `gorm:"size:32;not null;index"`
	MID     uint64  `gorm:"column:mid;not null"`
	Time    float64 `gorm:"not null;default:0"`
	Content string  `gorm:"size:512"`
}

func (Danmu) TableName() string { return "danmu" }

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{}, &Follow{}, &FollowerEntry{}, &Video{},
		&ViewRecord{}, &Like{}, &Coin{}, &Favorite{}, &Danmu{},
	}
}
