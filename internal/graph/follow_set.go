// Package graph holds pure operations over follow sets. Storage lives in
// internal/repository; everything here is side-effect free.
package graph

import (
	"slices"

	svcErr "github.com/oggyb/vidrec/internal/errors"
)

// FollowSet is the set of user ids a user follows (or is followed by).
type FollowSet map[uint64]struct{}

// NewFollowSet builds a set from ids. Duplicates collapse.
func NewFollowSet(ids ...uint64) FollowSet {
	s := make(FollowSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s FollowSet) Has(id uint64) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s FollowSet) IDs() []uint64 {
	ids := make([]uint64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s FollowSet) clone() FollowSet {
	out := make(FollowSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Toggle flips target's membership in owner's following set and returns the
// new set along with whether owner follows target afterwards. The receiver is
// not modified. An owner can never follow themselves.
func (s FollowSet) Toggle(owner, target uint64) (FollowSet, bool, error) {
	if owner == target {
		return s, false, svcErr.ErrSelfFollow
	}
	next := s.clone()
	if next.Has(target) {
		delete(next, target)
		return next, false, nil
	}
	next[target] = struct{}{}
	return next, true, nil
}

// Diff lists what has to be inserted and deleted to turn old into next.
// Both results are sorted ascending.
func Diff(old, next FollowSet) (added, removed []uint64) {
	for id := range next {
		if !old.Has(id) {
			added = append(added, id)
		}
	}
	for id := range old {
		if !next.Has(id) {
			removed = append(removed, id)
		}
	}
	slices.Sort(added)
	slices.Sort(removed)
	return added, removed
}

// Intersect returns members present in both sets, e.g. following ∩ follower
// gives a user's mutual friends.
func Intersect(a, b FollowSet) FollowSet {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(FollowSet)
	for id := range a {
		if b.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// WithoutSelf drops self-loops that would otherwise appear through shared
// membership of two sets.
func (s FollowSet) WithoutSelf(owner uint64) FollowSet {
	if !s.Has(owner) {
		return s
	}
	out := s.clone()
	delete(out, owner)
	return out
}
