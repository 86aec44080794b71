package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/vidrec/internal/db"
	svcErr "github.com/oggyb/vidrec/internal/errors"
	"github.com/oggyb/vidrec/internal/identity"
)

// UserRepository reads and writes accounts. Only live (not soft-deleted)
// accounts are returned by the Find methods.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// WithTx returns a repository bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&db.User{}).Where("is_deleted = ?", false)
}

// FindLive returns svcErr.ErrUserNotFound when mid is unknown or deleted.
func (r *UserRepository) FindLive(ctx context.Context, mid uint64) (*db.User, error) {
	var u db.User
	err := r.live(ctx).Where("id = ?", mid).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", mid, err)
	}
	return &u, nil
}

// LockLive is FindLive holding a row lock until the surrounding transaction
// ends, so writers keyed on one account run one at a time. SQLite has no row
// locks and serializes writers on its own.
func (r *UserRepository) LockLive(ctx context.Context, mid uint64) (*db.User, error) {
	var u db.User
	err := r.live(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", mid).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock user %d: %w", mid, err)
	}
	return &u, nil
}

// FindLiveByHandle returns at most two live accounts carrying the handle, so
// callers can tell "exactly one" from "ambiguous".
func (r *UserRepository) FindLiveByHandle(ctx context.Context, col identity.HandleColumn, handle string) ([]db.User, error) {
	q := r.live(ctx)
	switch col {
	case identity.HandleWechat:
		q = q.Where("wechat = ?", handle)
	case identity.HandleQQ:
		q = q.Where("qq = ?", handle)
	default:
		return nil, fmt.Errorf("unknown handle column %q", col)
	}

	var users []db.User
	if err := q.Order("id").Limit(2).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find user by %s: %w", col, err)
	}
	return users, nil
}

// HandleTaken reports whether any account, deleted or not, already holds
// one of the given handles. Nil handles are skipped.
func (r *UserRepository) HandleTaken(ctx context.Context, qq, wechat *string) (bool, error) {
	if qq == nil && wechat == nil {
		return false, nil
	}
	q := r.db.WithContext(ctx).Model(&db.User{})
	switch {
	case qq != nil && wechat != nil:
		q = q.Where("qq = ? OR wechat = ?", *qq, *wechat)
	case qq != nil:
		q = q.Where("qq = ?", *qq)
	default:
		q = q.Where("wechat = ?", *wechat)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check handles: %w", err)
	}
	return n > 0, nil
}

// Create inserts u and fills in its generated ID. A unique-index violation
// on qq or wechat surfaces as svcErr.ErrDuplicateIdentity.
func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.ErrDuplicateIdentity
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SoftDelete marks mid deleted. Already-deleted accounts report ErrUserNotFound.
func (r *UserRepository) SoftDelete(ctx context.Context, mid uint64) error {
	res := r.live(ctx).Where("id = ?", mid).Update("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", mid, res.Error)
	}
	if res.RowsAffected == 0 {
		return svcErr.ErrUserNotFound
	}
	return nil
}

// LiveLevels returns the level of every live account among mids.
// Deleted and unknown ids are absent from the map.
func (r *UserRepository) LiveLevels(ctx context.Context, mids []uint64) (map[uint64]int, error) {
	out := make(map[uint64]int, len(mids))
	if len(mids) == 0 {
		return out, nil
	}
	var rows []struct {
		ID    uint64
		Level int
	}
	if err := r.live(ctx).Select("id, level").Where("id IN ?", mids).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row.Level
	}
	return out, nil
}
