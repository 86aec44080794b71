package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedPassword is the plaintext password of every seeded account.
const SeedPassword = "password"

// SeedTestData resets the database and populates it with a demo dataset.
//
// Behavior:
//  1. Clears every table.
//  2. Creates 20 users; user 1 is a SUPERUSER, the rest are USERs.
//  3. Each user follows ~5 others at random.
//  4. Creates 30 videos and random views, likes, coins, favorites and danmu.
//  5. Rebuilds follower_index from follows.
//
// The shape is fixed; the random source only picks edges and engagement.
func SeedTestData(db *gorm.DB, seed int64) error {
	r := rand.New(rand.NewSource(seed))

	if err := clearAll(db); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		sexes := []string{"男", "女", "保密"}
		users := make([]User, 0, 20)
		for i := 1; i <= 20; i++ {
			role := "USER"
			if i == 1 {
				role = "SUPERUSER"
			}
			qq := fmt.Sprintf("%d", 10000+i)
			users = append(users, User{
				ID:           uint64(i),
				Name:         fmt.Sprintf("user%d", i),
				Sex:          sexes[i%len(sexes)],
				Birthday:     fmt.Sprintf("%d月%d日", r.Intn(12)+1, r.Intn(28)+1),
				Level:        r.Intn(7),
				Coin:         r.Intn(100),
				Identity:     role,
				PasswordHash: string(hash),
				QQ:           &qq,
			})
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		slog.Info("seeded users", "count", len(users))

		var follows []Follow
		for follower := 1; follower <= 20; follower++ {
			for j := 0; j < 5; j++ {
				followee := r.Intn(20) + 1
				if followee == follower {
					continue
				}
				follows = append(follows, Follow{FollowerID: uint64(follower), FolloweeID: uint64(followee)})
			}
		}
		if len(follows) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follows).Error; err != nil {
				return fmt.Errorf("failed to seed follows: %w", err)
			}
		}

		base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		videos := make([]Video, 0, 30)
		for i := 1; i <= 30; i++ {
			published := base.Add(time.Duration(i) * 24 * time.Hour)
			v := Video{
				BV:       fmt.Sprintf("BV%010d", i),
				OwnerID:  uint64(r.Intn(20) + 1),
				Title:    fmt.Sprintf("video %d", i),
				Duration: float64(60 + r.Intn(600)),
			}
			// leave a few unpublished
			if i%7 != 0 {
				v.PublicTime = &published
				v.ReviewTime = &published
			}
			videos = append(videos, v)
		}
		if err := tx.Create(&videos).Error; err != nil {
			return fmt.Errorf("failed to seed videos: %w", err)
		}

		var (
			views     []ViewRecord
			likes     []Like
			coins     []Coin
			favorites []Favorite
			danmu     []Danmu
		)
		for mid := 1; mid <= 20; mid++ {
			// distinct videos, one view row per (user, video)
			for _, idx := range r.Perm(len(videos))[:8] {
				v := videos[idx]
				views = append(views, ViewRecord{
					BV:       v.BV,
					MID:      uint64(mid),
					Progress: r.Float64() * v.Duration,
				})
				if r.Intn(100) < 40 {
					likes = append(likes, Like{MID: uint64(mid), BV: v.BV})
				}
				if r.Intn(100) < 15 {
					coins = append(coins, Coin{MID: uint64(mid), BV: v.BV})
				}
				if r.Intn(100) < 20 {
					favorites = append(favorites, Favorite{MID: uint64(mid), BV: v.BV})
				}
				for k := r.Intn(3); k > 0; k-- {
					danmu = append(danmu, Danmu{
						BV:      v.BV,
						MID:     uint64(mid),
						Time:    r.Float64() * v.Duration,
						Content: "233",
					})
				}
			}
		}

		batches := []struct {
			name string
			rows any
			n    int
		}{
			{"views", &views, len(views)},
			{"likes", &likes, len(likes)},
			{"coins", &coins, len(coins)},
			{"favorites", &favorites, len(favorites)},
			{"danmu", &danmu, len(danmu)},
		}
		for _, b := range batches {
			if b.n == 0 {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(b.rows).Error; err != nil {
				return fmt.Errorf("failed to seed %s: %w", b.name, err)
			}
		}
		slog.Info("seeded engagement",
			"videos", len(videos), "views", len(views), "likes", len(likes),
			"coins", len(coins), "favorites", len(favorites), "danmu", len(danmu))

		return RebuildFollowerIndex(tx)
	})
}

func clearAll(db *gorm.DB) error {
	tables := []string{
		"danmu", "favorites", "coins", "likes", "view_records",
		"videos", "follower_index", "follows", "users",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE view_records AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE danmu AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'view_records', 'danmu')")
	}
	slog.Info("cleared existing data")
	return nil
}
