package recommender

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/vidrec/internal/app"
	"github.com/oggyb/vidrec/internal/db"
	svcErr "github.com/oggyb/vidrec/internal/errors"
	"github.com/oggyb/vidrec/internal/graph"
	"github.com/oggyb/vidrec/internal/identity"
	"github.com/oggyb/vidrec/internal/metrics"
	"github.com/oggyb/vidrec/internal/ranking"
	"github.com/oggyb/vidrec/internal/repository"
	"github.com/oggyb/vidrec/internal/service/user"
	"github.com/oggyb/vidrec/internal/utils/pagination"
)

// Operation names, used as the metrics "op" label.
const (
	OpNextVideo       = "next_video"
	OpGeneral         = "general"
	OpPersonalized    = "personalized"
	OpFriends         = "friends"
	OpAverageViewRate = "average_view_rate"
)

// Service is the recommendation core. Every call reads inside one snapshot
// transaction and never writes.
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

// RecommendNextVideo returns up to five other videos ordered by how many
// viewers they share with bv. A video nobody has viewed is rejected with
// svcErr.ErrVideoNotViewed, as is an empty bv.
func (s *Service) RecommendNextVideo(ctx context.Context, bv string) (out []string, err error) {
	defer func(start time.Time) { metrics.ObserveRecommendation(OpNextVideo, start, err) }(time.Now())

	bv = strings.TrimSpace(bv)
	if bv == "" {
		return nil, svcErr.ErrVideoNotViewed
	}

	err = db.Snapshot(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		engagement := s.engagement.WithTx(tx)
		views, err := engagement.ViewCount(ctx, bv)
		if err != nil {
			return err
		}
		if views == 0 {
			return svcErr.ErrVideoNotViewed
		}
		co, err := engagement.CoViewed(ctx, bv)
		if err != nil {
			return err
		}
		out = ranking.TopCoViewed(co, ranking.NextVideoLimit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("next video ranked", "bv", bv, "count", len(out))
	return out, nil
}

// GeneralRecommendations pages through every video ordered by Score.
func (s *Service) GeneralRecommendations(ctx context.Context, pageSize, pageNum int) (out []string, err error) {
	defer func(start time.Time) { metrics.ObserveRecommendation(OpGeneral, start, err) }(time.Now())

	page, err := pagination.New(pageSize, pageNum)
	if err != nil {
		return nil, err
	}
	err = db.Snapshot(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		out, err = s.general(ctx, tx, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) general(ctx context.Context, tx *gorm.DB, page pagination.Page) ([]string, error) {
	signals, err := s.engagement.WithTx(tx).Signals(ctx)
	if err != nil {
		return nil, err
	}
	return pagination.Apply(ranking.ByScore(signals), page), nil
}

// RecommendVideosForUser ranks videos the caller's friends watched and the
// caller has not. Friends are mutual follows. With no such video the general
// ranking is returned instead, from the same snapshot.
func (s *Service) RecommendVideosForUser(ctx context.Context, auth identity.AuthInfo, pageSize, pageNum int) (out []string, err error) {
	defer func(start time.Time) { metrics.ObserveRecommendation(OpPersonalized, start, err) }(time.Now())

	err = db.Snapshot(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		caller, err := user.Authenticate(ctx, s.users.WithTx(tx), auth)
		if err != nil {
			return err
		}
		page, err := pagination.New(pageSize, pageNum)
		if err != nil {
			return err
		}

		friends, err := s.friendsOf(ctx, tx, caller.ID)
		if err != nil {
			return err
		}
		candidates, err := s.engagement.WithTx(tx).FriendViewed(ctx, caller.ID, friends.IDs())
		if err != nil {
			return err
		}

		if len(candidates) == 0 {
			metrics.PersonalizedFallbacks.Inc()
			s.appCtx.Logger.Debug("personalized fell back to general", "mid", caller.ID, "friends", len(friends))
			out, err = s.general(ctx, tx, page)
			return err
		}
		out = pagination.Apply(ranking.ByFriendViews(candidates), page)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// friendsOf is following(mid) ∩ follower(mid), never containing mid itself.
func (s *Service) friendsOf(ctx context.Context, tx *gorm.DB, mid uint64) (graph.FollowSet, error) {
	follows := s.follows.WithTx(tx)
	following, err := follows.Following(ctx, mid)
	if err != nil {
		return nil, err
	}
	followers, err := follows.Followers(ctx, mid)
	if err != nil {
		return nil, err
	}
	return graph.Intersect(graph.NewFollowSet(following...), graph.NewFollowSet(followers...)).WithoutSelf(mid), nil
}

// RecommendFriends suggests live accounts followed by the accounts the caller
// follows, ranked by how many of the caller's followings follow each one.
// A caller who follows nobody gets an empty list.
func (s *Service) RecommendFriends(ctx context.Context, auth identity.AuthInfo, pageSize, pageNum int) (out []uint64, err error) {
	defer func(start time.Time) { metrics.ObserveRecommendation(OpFriends, start, err) }(time.Now())

	err = db.Snapshot(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		caller, err := user.Authenticate(ctx, s.users.WithTx(tx), auth)
		if err != nil {
			return err
		}
		page, err := pagination.New(pageSize, pageNum)
		if err != nil {
			return err
		}

		follows := s.follows.WithTx(tx)
		ids, err := follows.Following(ctx, caller.ID)
		if err != nil {
			return err
		}
		out = []uint64{}
		if len(ids) == 0 {
			return nil
		}
		following := graph.NewFollowSet(ids...)

		edges, err := follows.EdgesFrom(ctx, ids)
		if err != nil {
			return err
		}
		mutual := make(map[uint64]int)
		for _, e := range edges {
			if e.FolloweeID == caller.ID || following.Has(e.FolloweeID) {
				continue
			}
			mutual[e.FolloweeID]++
		}
		if len(mutual) == 0 {
			return nil
		}

		mids := make([]uint64, 0, len(mutual))
		for mid := range mutual {
			mids = append(mids, mid)
		}
		levels, err := s.users.WithTx(tx).LiveLevels(ctx, mids)
		if err != nil {
			return err
		}

		candidates := make([]ranking.FriendCandidate, 0, len(levels))
		for mid, level := range levels {
			candidates = append(candidates, ranking.FriendCandidate{MID: mid, Mutual: mutual[mid], Level: level})
		}
		out = pagination.Apply(ranking.ByMutualFollowings(candidates), page)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AverageViewRate is the mean completion ratio of bv, -1 when undefined.
func (s *Service) AverageViewRate(ctx context.Context, bv string) (rate float64, err error) {
	defer func(start time.Time) { metrics.ObserveRecommendation(OpAverageViewRate, start, err) }(time.Now())

	err = db.Snapshot(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		rate, err = s.engagement.WithTx(tx).AverageViewRate(ctx, strings.TrimSpace(bv))
		return err
	})
	if err != nil {
		return 0, err
	}
	return rate, nil
}
