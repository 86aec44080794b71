package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/vidrec/internal/db"
	"github.com/oggyb/vidrec/internal/db/dbtest"
	"github.com/oggyb/vidrec/internal/graph"
	"github.com/oggyb/vidrec/internal/repository"
)

// assertProjection checks follower_index mirrors follows exactly.
func assertProjection(t *testing.T, gdb *gorm.DB) {
	t.Helper()

	var follows []db.Follow
	require.NoError(t, gdb.Find(&follows).Error)
	var entries []db.FollowerEntry
	require.NoError(t, gdb.Find(&entries).Error)

	want := make([]db.FollowerEntry, 0, len(follows))
	for _, f := range follows {
		want = append(want, db.FollowerEntry{UserID: f.FolloweeID, FollowerID: f.FollowerID})
	}
	assert.ElementsMatch(t, want, entries)
}

func TestFollowRepository_ReplaceFollowing(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	repo := repository.NewFollowRepository(gdb)

	empty := graph.NewFollowSet()
	require.NoError(t, repo.ReplaceFollowing(ctx, 1, empty, graph.NewFollowSet(2, 3, 4)))

	following, err := repo.Following(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 4}, following)

	followers, err := repo.Followers(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, followers)
	assertProjection(t, gdb)

	require.NoError(t, repo.ReplaceFollowing(ctx, 1, graph.NewFollowSet(2, 3, 4), graph.NewFollowSet(2, 5)))

	following, err = repo.Following(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 5}, following)
	n, err := repo.CountFollowers(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, n)
	assertProjection(t, gdb)

	// no diff, no write
	require.NoError(t, repo.ReplaceFollowing(ctx, 1, graph.NewFollowSet(2, 5), graph.NewFollowSet(2, 5)))
}

func TestFollowRepository_ReplaceFollowingInsideTx(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	repo := repository.NewFollowRepository(gdb)

	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).ReplaceFollowing(ctx, 1, graph.NewFollowSet(), graph.NewFollowSet(2)); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	assert.ErrorIs(t, err, gorm.ErrInvalidTransaction)

	// both tables rolled back together
	following, err := repo.Following(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, following)
	followers, err := repo.Followers(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestFollowRepository_RemoveUserEdges(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	repo := repository.NewFollowRepository(gdb)

	require.NoError(t, repo.ReplaceFollowing(ctx, 1, graph.NewFollowSet(), graph.NewFollowSet(2, 3)))
	require.NoError(t, repo.ReplaceFollowing(ctx, 2, graph.NewFollowSet(), graph.NewFollowSet(1, 3)))
	require.NoError(t, repo.ReplaceFollowing(ctx, 3, graph.NewFollowSet(), graph.NewFollowSet(2)))

	affected, err := repo.RemoveUserEdges(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, affected)

	followers, err := repo.Followers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, followers)
	following, err := repo.Following(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, following)
	assertProjection(t, gdb)
}

func TestFollowRepository_EdgesFrom(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	repo := repository.NewFollowRepository(gdb)

	require.NoError(t, repo.ReplaceFollowing(ctx, 1, graph.NewFollowSet(), graph.NewFollowSet(2)))
	require.NoError(t, repo.ReplaceFollowing(ctx, 2, graph.NewFollowSet(), graph.NewFollowSet(3, 4)))
	require.NoError(t, repo.ReplaceFollowing(ctx, 5, graph.NewFollowSet(), graph.NewFollowSet(4)))

	edges, err := repo.EdgesFrom(ctx, []uint64{2, 5})
	require.NoError(t, err)
	require.Len(t, edges, 3)
	assert.Equal(t, uint64(2), edges[0].FollowerID)
	assert.Equal(t, uint64(3), edges[0].FolloweeID)
	assert.Equal(t, uint64(5), edges[2].FollowerID)

	edges, err = repo.EdgesFrom(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, edges)
}
