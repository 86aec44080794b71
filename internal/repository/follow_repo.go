package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/vidrec/internal/db"
	"github.com/oggyb/vidrec/internal/graph"
)

// FollowRepository owns the follows table and its follower_index projection.
// Every write here touches both tables inside one transaction.
type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(database *gorm.DB) *FollowRepository {
	return &FollowRepository{db: database}
}

// WithTx returns a repository bound to tx.
func (r *FollowRepository) WithTx(tx *gorm.DB) *FollowRepository {
	return &FollowRepository{db: tx}
}

// Following lists who mid follows, ascending.
func (r *FollowRepository) Following(ctx context.Context, mid uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&db.Follow{}).
		Where("follower_id = ?", mid).
		Order("followee_id").
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load following of %d: %w", mid, err)
	}
	return ids, nil
}

// Followers lists who follows mid, ascending. Served from the projection.
func (r *FollowRepository) Followers(ctx context.Context, mid uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&db.FollowerEntry{}).
		Where("user_id = ?", mid).
		Order("follower_id").
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load followers of %d: %w", mid, err)
	}
	return ids, nil
}

// CountFollowers counts the projection rows of mid.
func (r *FollowRepository) CountFollowers(ctx context.Context, mid uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db.FollowerEntry{}).
		Where("user_id = ?", mid).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count followers of %d: %w", mid, err)
	}
	return n, nil
}

// EdgesFrom returns every follow whose follower is in followers.
func (r *FollowRepository) EdgesFrom(ctx context.Context, followers []uint64) ([]db.Follow, error) {
	if len(followers) == 0 {
		return nil, nil
	}
	var edges []db.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id IN ?", followers).
		Order("follower_id, followee_id").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("load follow edges: %w", err)
	}
	return edges, nil
}

// ReplaceFollowing moves owner's following set from current to next, writing
// only the difference to follows and follower_index.
func (r *FollowRepository) ReplaceFollowing(ctx context.Context, owner uint64, current, next graph.FollowSet) error {
	added, removed := graph.Diff(current, next)
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(added) > 0 {
			follows := make([]db.Follow, 0, len(added))
			entries := make([]db.FollowerEntry, 0, len(added))
			for _, id := range added {
				follows = append(follows, db.Follow{FollowerID: owner, FolloweeID: id})
				entries = append(entries, db.FollowerEntry{UserID: id, FollowerID: owner})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follows).Error; err != nil {
				return fmt.Errorf("insert follows: %w", err)
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entries).Error; err != nil {
				return fmt.Errorf("insert follower index: %w", err)
			}
		}

		if len(removed) > 0 {
			err := tx.Where("follower_id = ? AND followee_id IN ?", owner, removed).
				Delete(&db.Follow{}).Error
			if err != nil {
				return fmt.Errorf("delete follows: %w", err)
			}
			err = tx.Where("follower_id = ? AND user_id IN ?", owner, removed).
				Delete(&db.FollowerEntry{}).Error
			if err != nil {
				return fmt.Errorf("delete follower index: %w", err)
			}
		}
		return nil
	})
}

// RemoveUserEdges deletes every edge touching mid from both tables and
// returns the users whose follower lists lost mid.
func (r *FollowRepository) RemoveUserEdges(ctx context.Context, mid uint64) ([]uint64, error) {
	var affected []uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&db.Follow{}).
			Where("follower_id = ?", mid).
			Order("followee_id").
			Pluck("followee_id", &affected).Error
		if err != nil {
			return fmt.Errorf("load following of %d: %w", mid, err)
		}

		if err := tx.Where("follower_id = ? OR followee_id = ?", mid, mid).Delete(&db.Follow{}).Error; err != nil {
			return fmt.Errorf("delete follows of %d: %w", mid, err)
		}
		if err := tx.Where("user_id = ? OR follower_id = ?", mid, mid).Delete(&db.FollowerEntry{}).Error; err != nil {
			return fmt.Errorf("delete follower index of %d: %w", mid, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}
