package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/newsfeed/internal/apperr"
)

func TestFollowAndUnfollow(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")
	ctx := context.Background()

	require.NoError(t, env.relations.Follow(ctx, a.ID, b.ID))

	exists, err := env.relRepo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, env.relations.Unfollow(ctx, a.ID, b.ID))
	exists, err = env.relRepo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFollowSelfRejected(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "alice")

	err := env.relations.Follow(context.Background(), a.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	assert.Equal(t, "Cannot follow yourself", apperr.MessageOf(err))
}

func TestFollowTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")
	ctx := context.Background()

	require.NoError(t, env.relations.Follow(ctx, a.ID, b.ID))
	err := env.relations.Follow(ctx, a.ID, b.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeAlreadyExists, apperr.CodeOf(err))
	assert.Equal(t, "Already following this user", apperr.MessageOf(err))
}

func TestUnfollowAbsentRelationship(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")

	err := env.relations.Unfollow(context.Background(), a.ID, b.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	assert.Equal(t, "Not following this user", apperr.MessageOf(err))
}

func TestListFollowingAndFollowers(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")
	c := env.seedUser(t, "carol")
	ctx := context.Background()

	require.NoError(t, env.relations.Follow(ctx, a.ID, b.ID))
	require.NoError(t, env.relations.Follow(ctx, a.ID, c.ID))
	require.NoError(t, env.relations.Follow(ctx, b.ID, c.ID))

	following, err := env.relations.ListFollowing(ctx, a.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, following.Profiles, 2)
	names := []string{following.Profiles[0].Username, following.Profiles[1].Username}
	assert.ElementsMatch(t, []string{"bob", "carol"}, names)
	assert.False(t, following.HasMore)

	followers, err := env.relations.ListFollowers(ctx, c.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, followers.Profiles, 2)
	names = []string{followers.Profiles[0].Username, followers.Profiles[1].Username}
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)
}

func TestListFollowingPaginates(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "alice")
	ctx := context.Background()

	for _, name := range []string{"u_one", "u_two", "u_three"} {
		u := env.seedUser(t, name)
		require.NoError(t, env.relations.Follow(ctx, a.ID, u.ID))
	}

	first, err := env.relations.ListFollowing(ctx, a.ID, 2, "")
	require.NoError(t, err)
	require.Len(t, first.Profiles, 2)
	require.True(t, first.HasMore)
	require.NotEmpty(t, first.NextToken)

	second, err := env.relations.ListFollowing(ctx, a.ID, 2, first.NextToken)
	require.NoError(t, err)
	require.Len(t, second.Profiles, 1)
	assert.False(t, second.HasMore)

	seen := map[string]bool{}
	for _, p := range append(first.Profiles, second.Profiles...) {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestFollowEnqueuesBackfill(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")

	require.NoError(t, env.relations.Follow(context.Background(), a.ID, b.ID))
	assert.Equal(t, 1, env.backfiller.QueueLen())
}
