package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/vidrec/internal/db"
	"github.com/oggyb/vidrec/internal/ranking"
)

// EngagementRepository reads videos and the per-user engagement tables
// (views, likes, coins, favorites, danmu) as grouped counts.
type EngagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(database *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: database}
}

// WithTx returns a repository bound to tx.
func (r *EngagementRepository) WithTx(tx *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: tx}
}

type bvCount struct {
	BV string `gorm:"column:bv"`
	N  int64  `gorm:"column:n"`
}

type bvViews struct {
	BV    string  `gorm:"column:bv"`
	N     int64   `gorm:"column:n"`
	Total float64 `gorm:"column:total"`
}

// ViewCount counts the view events of bv.
func (r *EngagementRepository) ViewCount(ctx context.Context, bv string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&db.ViewRecord{}).Where("bv = ?", bv).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count views of %s: %w", bv, err)
	}
	return n, nil
}

// CoViewed returns every other existing video sharing at least one viewer
// with bv, and how many distinct viewers it shares.
func (r *EngagementRepository) CoViewed(ctx context.Context, bv string) ([]ranking.CoView, error) {
	var rows []bvCount
	err := r.db.WithContext(ctx).
		Table("view_records AS target").
		Select("other.bv AS bv, COUNT(DISTINCT other.mid) AS n").
		Joins("JOIN view_records AS other ON other.mid = target.mid AND other.bv <> target.bv").
		Joins("JOIN videos ON videos.bv = other.bv").
		Where("target.bv = ?", bv).
		Group("other.bv").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load co-viewed videos of %s: %w", bv, err)
	}

	out := make([]ranking.CoView, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.CoView{BV: row.BV, Shared: row.N})
	}
	return out, nil
}

// Signals returns the engagement counts of every video.
func (r *EngagementRepository) Signals(ctx context.Context) ([]ranking.VideoSignals, error) {
	var videos []db.Video
	if err := r.db.WithContext(ctx).Select("bv", "duration").Order("bv").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}

	out := make([]ranking.VideoSignals, len(videos))
	index := make(map[string]*ranking.VideoSignals, len(videos))
	for i, v := range videos {
		out[i] = ranking.VideoSignals{BV: v.BV, Duration: v.Duration}
		index[v.BV] = &out[i]
	}

	var views []bvViews
	err := r.db.WithContext(ctx).Model(&db.ViewRecord{}).
		Select("bv, COUNT(*) AS n, COALESCE(SUM(progress), 0) AS total").
		Group("bv").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate views: %w", err)
	}
	for _, row := range views {
		if s, ok := index[row.BV]; ok {
			s.Views = row.N
			s.TotalProgress = row.Total
		}
	}

	counts := []struct {
		model any
		set   func(*ranking.VideoSignals, int64)
	}{
		{&db.Like{}, func(s *ranking.VideoSignals, n int64) { s.Likes = n }},
		{&db.Coin{}, func(s *ranking.VideoSignals, n int64) { s.Coins = n }},
		{&db.Favorite{}, func(s *ranking.VideoSignals, n int64) { s.Favorites = n }},
		{&db.Danmu{}, func(s *ranking.VideoSignals, n int64) { s.Danmu = n }},
	}
	for _, c := range counts {
		rows, err := r.countByVideo(ctx, c.model)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if s, ok := index[row.BV]; ok {
				c.set(s, row.N)
			}
		}
	}
	return out, nil
}

func (r *EngagementRepository) countByVideo(ctx context.Context, model any) ([]bvCount, error) {
	var rows []bvCount
	err := r.db.WithContext(ctx).Model(model).
		Select("bv, COUNT(*) AS n").
		Group("bv").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate %T: %w", model, err)
	}
	return rows, nil
}

// FriendViewed returns the existing videos viewed by any of friends that
// viewer has never viewed, with the number of distinct friends behind each.
func (r *EngagementRepository) FriendViewed(ctx context.Context, viewer uint64, friends []uint64) ([]ranking.FriendViewed, error) {
	if len(friends) == 0 {
		return nil, nil
	}

	seen := r.db.WithContext(ctx).Model(&db.ViewRecord{}).Select("bv").Where("mid = ?", viewer)
	var counts []bvCount
	err := r.db.WithContext(ctx).Model(&db.ViewRecord{}).
		Select("bv, COUNT(DISTINCT mid) AS n").
		Where("mid IN ?", friends).
		Where("bv NOT IN (?)", seen).
		Group("bv").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("load friend views: %w", err)
	}
	if len(counts) == 0 {
		return nil, nil
	}

	bvs := make([]string, 0, len(counts))
	for _, c := range counts {
		bvs = append(bvs, c.BV)
	}
	var videos []db.Video
	if err := r.db.WithContext(ctx).Where("bv IN ?", bvs).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("load candidate videos: %w", err)
	}

	owners := make([]uint64, 0, len(videos))
	for _, v := range videos {
		owners = append(owners, v.OwnerID)
	}
	var levels []struct {
		ID    uint64
		Level int
	}
	if len(owners) > 0 {
		err := r.db.WithContext(ctx).Model(&db.User{}).
			Select("id, level").
			Where("id IN ?", owners).
			Scan(&levels).Error
		if err != nil {
			return nil, fmt.Errorf("load owner levels: %w", err)
		}
	}
	levelOf := make(map[uint64]int, len(levels))
	for _, l := range levels {
		levelOf[l.ID] = l.Level
	}
	friendViews := make(map[string]int, len(counts))
	for _, c := range counts {
		friendViews[c.BV] = int(c.N)
	}

	out := make([]ranking.FriendViewed, 0, len(videos))
	for _, v := range videos {
		out = append(out, ranking.FriendViewed{
			BV:          v.BV,
			FriendViews: friendViews[v.BV],
			OwnerLevel:  levelOf[v.OwnerID],
			PublicTime:  v.PublicTime,
		})
	}
	return out, nil
}

// AverageViewRate is the mean completion ratio of bv, or -1 when the video is
// unknown, has no positive duration, or has never been viewed.
func (r *EngagementRepository) AverageViewRate(ctx context.Context, bv string) (float64, error) {
	var v db.Video
	err := r.db.WithContext(ctx).Select("bv", "duration").Where("bv = ?", bv).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load video %s: %w", bv, err)
	}
	if v.Duration <= 0 {
		return -1, nil
	}

	var agg bvViews
	err = r.db.WithContext(ctx).Model(&db.ViewRecord{}).
		Select("bv, COUNT(*) AS n, COALESCE(SUM(progress), 0) AS total").
		Where("bv = ?", bv).
		Group("bv").
		Scan(&agg).Error
	if err != nil {
		return 0, fmt.Errorf("aggregate views of %s: %w", bv, err)
	}
	if agg.N == 0 {
		return -1, nil
	}

	s := ranking.VideoSignals{BV: bv, Duration: v.Duration, Views: agg.N, TotalProgress: agg.Total}
	return s.CompletionRatio(), nil
}

// Watched lists the distinct videos mid has viewed, ascending.
func (r *EngagementRepository) Watched(ctx context.Context, mid uint64) ([]string, error) {
	return r.videosOf(ctx, &db.ViewRecord{}, "mid = ?", mid)
}

func (r *EngagementRepository) Liked(ctx context.Context, mid uint64) ([]string, error) {
	return r.videosOf(ctx, &db.Like{}, "mid = ?", mid)
}

func (r *EngagementRepository) Collected(ctx context.Context, mid uint64) ([]string, error) {
	return r.videosOf(ctx, &db.Favorite{}, "mid = ?", mid)
}

func (r *EngagementRepository) Posted(ctx context.Context, mid uint64) ([]string, error) {
	return r.videosOf(ctx, &db.Video{}, "owner_id = ?", mid)
}

func (r *EngagementRepository) videosOf(ctx context.Context, model any, cond string, mid uint64) ([]string, error) {
	var bvs []string
	err := r.db.WithContext(ctx).Model(model).
		Distinct("bv").
		Where(cond, mid).
		Order("bv").
		Pluck("bv", &bvs).Error
	if err != nil {
		return nil, fmt.Errorf("list %T of %d: %w", model, mid, err)
	}
	return bvs, nil
}

// RemoveUserEngagement deletes mid's views, likes, coins and favorites.
// Danmu rows are kept.
func (r *EngagementRepository) RemoveUserEngagement(ctx context.Context, mid uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&db.ViewRecord{}, &db.Like{}, &db.Coin{}, &db.Favorite{}} {
			if err := tx.Where("mid = ?", mid).Delete(model).Error; err != nil {
				return fmt.Errorf("delete %T of %d: %w", model, mid, err)
			}
		}
		return nil
	})
}
