package ranking

import (
	"cmp"
	"slices"
	"time"
)

// NextVideoLimit caps the co-view list.
const NextVideoLimit = 5

// CoView is a candidate video and how many viewers it shares with the target.
type CoView struct {
	BV     string
	Shared int64
}

// TopCoViewed orders by shared viewers desc, then bv asc, and keeps limit.
func TopCoViewed(candidates []CoView, limit int) []string {
	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b CoView) int {
		if c := cmp.Compare(b.Shared, a.Shared); c != 0 {
			return c
		}
		return cmp.Compare(a.BV, b.BV)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]string, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, c.BV)
	}
	return out
}

// ByScore orders every video by Score desc, then bv asc.
func ByScore(videos []VideoSignals) []string {
	type scored struct {
		bv    string
		score float64
	}
	rows := make([]scored, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, scored{bv: v.BV, score: v.Score()})
	}
	slices.SortFunc(rows, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.bv, b.bv)
	})
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.bv)
	}
	return out
}

// FriendViewed is a video watched by at least one of the caller's friends.
type FriendViewed struct {
	BV          string
	FriendViews int // distinct friends who viewed it
	OwnerLevel  int
	PublicTime  *time.Time
}

// ByFriendViews orders personalized candidates: friend viewers desc, owner
// level desc, public time desc with unset times last, then bv asc.
func ByFriendViews(candidates []FriendViewed) []string {
	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b FriendViewed) int {
		if c := cmp.Compare(b.FriendViews, a.FriendViews); c != 0 {
			return c
		}
		if c := cmp.Compare(b.OwnerLevel, a.OwnerLevel); c != 0 {
			return c
		}
		if c := compareTimeDesc(a.PublicTime, b.PublicTime); c != 0 {
			return c
		}
		return cmp.Compare(a.BV, b.BV)
	})
	out := make([]string, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, c.BV)
	}
	return out
}

func compareTimeDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return b.Compare(*a)
	}
}

// FriendCandidate is a second-degree user reachable through the caller's followings.
type FriendCandidate struct {
	MID    uint64
	Mutual int // how many of the caller's followings follow this user
	Level  int
}

// ByMutualFollowings orders by mutual count desc, level desc, then mid asc.
func ByMutualFollowings(candidates []FriendCandidate) []uint64 {
	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b FriendCandidate) int {
		if c := cmp.Compare(b.Mutual, a.Mutual); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Level, a.Level); c != 0 {
			return c
		}
		return cmp.Compare(a.MID, b.MID)
	})
	out := make([]uint64, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, c.MID)
	}
	return out
}
