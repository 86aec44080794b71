package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignals_NoViewsMeansNoSignal(t *testing.T) {
	s := VideoSignals{BV: "BV1", Duration: 100, Likes: 3, Coins: 2, Favorites: 1, Danmu: 9}

	assert.Zero(t, s.LikeRatio())
	assert.Zero(t, s.DanmuDensity())
	assert.Zero(t, s.CompletionRatio())
	assert.Zero(t, s.Score())
}

func TestSignals_Score(t *testing.T) {
	s := VideoSignals{
		BV:            "BV1",
		Duration:      100,
		Views:         4,
		Likes:         2,
		Coins:         1,
		Favorites:     1,
		Danmu:         6, // two from one viewer still count twice
		TotalProgress: 200,
	}

	assert.InDelta(t, 0.5, s.LikeRatio(), 1e-9)
	assert.InDelta(t, 0.25, s.CoinRatio(), 1e-9)
	assert.InDelta(t, 0.25, s.FavoriteRatio(), 1e-9)
	assert.InDelta(t, 1.5, s.DanmuDensity(), 1e-9)
	assert.InDelta(t, 0.5, s.CompletionRatio(), 1e-9)
	assert.InDelta(t, 3.0, s.Score(), 1e-9)
}

func TestSignals_ZeroDuration(t *testing.T) {
	s := VideoSignals{BV: "BV1", Views: 2, TotalProgress: 50}
	assert.Zero(t, s.CompletionRatio())
}

func TestTopCoViewed(t *testing.T) {
	got := TopCoViewed([]CoView{
		{BV: "Z", Shared: 1},
		{BV: "Y", Shared: 2},
		{BV: "A", Shared: 1},
		{BV: "B", Shared: 1},
		{BV: "C", Shared: 1},
		{BV: "D", Shared: 1},
	}, NextVideoLimit)

	assert.Equal(t, []string{"Y", "A", "B", "C", "D"}, got)
}

func TestByScore_TieBreakAndMonotonicity(t *testing.T) {
	videos := []VideoSignals{
		{BV: "b", Views: 2, Likes: 1},
		{BV: "a", Views: 2, Likes: 1},
		{BV: "c", Views: 2, Likes: 2},
	}
	assert.Equal(t, []string{"c", "a", "b"}, ByScore(videos))

	// one more like on b lifts it above a without touching c
	videos[0].Likes = 2
	assert.Equal(t, []string{"b", "c", "a"}, ByScore(videos))
}

func TestByFriendViews(t *testing.T) {
	early := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	got := ByFriendViews([]FriendViewed{
		{BV: "nil-time", FriendViews: 1, OwnerLevel: 3},
		{BV: "early", FriendViews: 1, OwnerLevel: 3, PublicTime: &early},
		{BV: "late", FriendViews: 1, OwnerLevel: 3, PublicTime: &late},
		{BV: "high-level", FriendViews: 1, OwnerLevel: 6},
		{BV: "popular", FriendViews: 2},
	})

	assert.Equal(t, []string{"popular", "high-level", "late", "early", "nil-time"}, got)
}

func TestByMutualFollowings(t *testing.T) {
	got := ByMutualFollowings([]FriendCandidate{
		{MID: 9, Mutual: 1, Level: 2},
		{MID: 4, Mutual: 1, Level: 2},
		{MID: 5, Mutual: 1, Level: 5},
		{MID: 7, Mutual: 3, Level: 0},
	})

	assert.Equal(t, []uint64{7, 5, 4, 9}, got)
}
