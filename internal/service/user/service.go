package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oggyb/vidrec/internal/app"
	"github.com/oggyb/vidrec/internal/db"
	svcErr "github.com/oggyb/vidrec/internal/errors"
	"github.com/oggyb/vidrec/internal/graph"
	"github.com/oggyb/vidrec/internal/identity"
	"github.com/oggyb/vidrec/internal/metrics"
	"github.com/oggyb/vidrec/internal/repository"
)

// Service holds the account and follow-graph operations.
// Errors are domain errors; the gRPC handler maps them to status codes.
type Service struct {
	appCtx     *app.AppContext
	users      *repository.UserRepository
	follows    *repository.FollowRepository
	engagement *repository.EngagementRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		users:      repository.NewUserRepository(appCtx.DB),
		follows:    repository.NewFollowRepository(appCtx.DB),
		engagement: repository.NewEngagementRepository(appCtx.DB),
	}
}

// UserInfo is the public profile of an account.
type UserInfo struct {
	MID       uint64
	Coin      int
	Following []uint64
	Follower  []uint64
	Watched   []string
	Liked     []string
	Collected []string
	Posted    []string
}

// Resolve returns the live account auth identifies.
func (s *Service) Resolve(ctx context.Context, auth identity.AuthInfo) (*db.User, error) {
	return Authenticate(ctx, s.users, auth)
}

// IsValidAuth reports whether auth resolves to a live account.
func (s *Service) IsValidAuth(ctx context.Context, auth identity.AuthInfo) (bool, error) {
	_, err := s.Resolve(ctx, auth)
	if errors.Is(err, svcErr.ErrUnauthenticated) {
		return false, nil
	}
	return err == nil, err
}

// IsAuthorized reports whether the caller may act on target. Unresolvable
// callers and missing targets are plain false.
func (s *Service) IsAuthorized(ctx context.Context, auth identity.AuthInfo, target uint64) (bool, error) {
	_, _, err := s.authorize(ctx, auth, target)
	switch {
	case err == nil:
		return true, nil
	case svcErr.IsRejection(err):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) authorize(ctx context.Context, auth identity.AuthInfo, target uint64) (*db.User, *db.User, error) {
	actor, err := s.Resolve(ctx, auth)
	if err != nil {
		return nil, nil, err
	}
	victim, err := s.users.FindLive(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	if !identity.CanActOn(actor.ID, identity.Role(actor.Identity), victim.ID, identity.Role(victim.Identity)) {
		return nil, nil, svcErr.ErrForbidden
	}
	return actor, victim, nil
}

// Register creates a USER account and returns its id.
func (s *Service) Register(ctx context.Context, in RegisterInput) (uint64, error) {
	in, err := in.normalize()
	if err != nil {
		return 0, err
	}

	var qq, wechat *string
	if in.QQ != "" {
		qq = &in.QQ
	}
	if in.Wechat != "" {
		wechat = &in.Wechat
	}
	taken, err := s.users.HandleTaken(ctx, qq, wechat)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, svcErr.ErrDuplicateIdentity
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	u := &db.User{
		Name:         in.Name,
		Sex:          in.Sex,
		Birthday:     in.Birthday,
		Sign:         in.Sign,
		Identity:     string(identity.RoleUser),
		PasswordHash: string(hash),
		QQ:           qq,
		Wechat:       wechat,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return 0, err
	}
	s.appCtx.Logger.Info("user registered", "mid", u.ID)
	return u.ID, nil
}

// DeleteAccount soft-deletes mid and, in the same transaction, removes its
// follow edges and engagement rows.
func (s *Service) DeleteAccount(ctx context.Context, auth identity.AuthInfo, mid uint64) (bool, error) {
	actor, _, err := s.authorize(ctx, auth, mid)
	if err != nil {
		return false, err
	}

	var affected []uint64
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).SoftDelete(ctx, mid); err != nil {
			return err
		}
		ids, err := s.follows.WithTx(tx).RemoveUserEdges(ctx, mid)
		if err != nil {
			return err
		}
		affected = ids
		return s.engagement.WithTx(tx).RemoveUserEngagement(ctx, mid)
	})
	if err != nil {
		return false, err
	}

	s.invalidateCounts(ctx, append(affected, mid)...)
	s.appCtx.Logger.Info("account deleted", "mid", mid, "by", actor.ID)
	return true, nil
}

// Follow toggles the caller's follow of followee and reports whether the
// caller follows followee afterwards.
func (s *Service) Follow(ctx context.Context, auth identity.AuthInfo, followee uint64) (bool, error) {
	actor, err := s.Resolve(ctx, auth)
	if err != nil {
		return false, err
	}

	var following bool
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		// toggles by the same owner must not read the same following set
		if _, err := users.LockLive(ctx, actor.ID); err != nil {
			if errors.Is(err, svcErr.ErrUserNotFound) {
				return svcErr.ErrUnauthenticated
			}
			return err
		}
		if _, err := users.FindLive(ctx, followee); err != nil {
			return err
		}
		follows := s.follows.WithTx(tx)
		ids, err := follows.Following(ctx, actor.ID)
		if err != nil {
			return err
		}
		current := graph.NewFollowSet(ids...)
		next, now, err := current.Toggle(actor.ID, followee)
		if err != nil {
			return err
		}
		following = now
		return follows.ReplaceFollowing(ctx, actor.ID, current, next)
	})
	if err != nil {
		return false, err
	}

	s.invalidateCounts(ctx, followee)
	s.appCtx.Logger.Debug("follow toggled", "follower", actor.ID, "followee", followee, "following", following)
	return following, nil
}

// GetUserInfo reads the profile of a live account in one snapshot.
func (s *Service) GetUserInfo(ctx context.Context, mid uint64) (*UserInfo, error) {
	var info *UserInfo
	err := db.Snapshot(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		u, err := s.users.WithTx(tx).FindLive(ctx, mid)
		if err != nil {
			return err
		}
		out := &UserInfo{MID: u.ID, Coin: u.Coin}

		follows := s.follows.WithTx(tx)
		if out.Following, err = follows.Following(ctx, mid); err != nil {
			return err
		}
		if out.Follower, err = follows.Followers(ctx, mid); err != nil {
			return err
		}

		engagement := s.engagement.WithTx(tx)
		if out.Watched, err = engagement.Watched(ctx, mid); err != nil {
			return err
		}
		if out.Liked, err = engagement.Liked(ctx, mid); err != nil {
			return err
		}
		if out.Collected, err = engagement.Collected(ctx, mid); err != nil {
			return err
		}
		if out.Posted, err = engagement.Posted(ctx, mid); err != nil {
			return err
		}
		info = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// CountFollowers returns how many accounts follow mid.
// Cache-first strategy:
//  1. Attempts to read from Redis (followers:count:mid), refreshing the TTL on a hit.
//  2. On a miss or Redis failure, counts the follower projection.
//  3. Writes the fresh count back with the configured TTL.
//
// Every follow-graph write invalidates the affected keys and bumps their
// generation. The write-back in step 3 only lands if the generation read
// before step 2 is unchanged, so a count taken before a concurrent write is
// never cached after it.
func (s *Service) CountFollowers(ctx context.Context, mid uint64) (int64, error) {
	ttl := s.appCtx.FollowerTTL
	rc := s.appCtx.RedisCache

	var (
		gen      int64
		writable bool
	)
	if rc != nil {
		n, ok, err := rc.GetFollowerCount(ctx, mid, ttl)
		switch {
		case err != nil:
			metrics.RecordFollowerCacheLookup(metrics.CacheError)
			s.appCtx.Logger.Warn("follower cache read failed", "mid", mid, "err", err)
		case ok:
			metrics.RecordFollowerCacheLookup(metrics.CacheHit)
			return n, nil
		default:
			metrics.RecordFollowerCacheLookup(metrics.CacheMiss)
			if gen, err = rc.FollowerCountGeneration(ctx, mid); err != nil {
				s.appCtx.Logger.Warn("follower cache generation read failed", "mid", mid, "err", err)
			} else {
				writable = true
			}
		}
	}

	n, err := s.follows.CountFollowers(ctx, mid)
	if err != nil {
		return 0, err
	}

	if writable {
		stored, err := rc.SetFollowerCount(ctx, mid, n, ttl, gen)
		switch {
		case err != nil:
			s.appCtx.Logger.Warn("follower cache write failed", "mid", mid, "err", err)
		case !stored:
			s.appCtx.Logger.Debug("follower count changed while counting, not cached", "mid", mid)
		}
	}
	return n, nil
}

func (s *Service) invalidateCounts(ctx context.Context, mids ...uint64) {
	if s.appCtx.RedisCache == nil {
		return
	}
	if err := s.appCtx.RedisCache.InvalidateFollowerCounts(ctx, mids...); err != nil {
		s.appCtx.Logger.Error("follower cache invalidation failed", "mids", mids, "err", err)
	}
}
