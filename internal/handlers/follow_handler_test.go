package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/artconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func follow(t *testing.T, h *FollowHandler, follower, target string) error {
	t.Helper()
	c, _ := newTestContext(t, http.MethodPost, "/users/"+target+"/follow", nil,
		&models.Session{FirebaseUID: follower})
	c.SetParamNames("uid")
	c.SetParamValues(target)
	return h.FollowUser(c)
}

func unfollow(t *testing.T, h *FollowHandler, follower, target string) error {
	t.Helper()
	c, _ := newTestContext(t, http.MethodDelete, "/users/"+target+"/follow", nil,
		&models.Session{FirebaseUID: follower})
	c.SetParamNames("uid")
	c.SetParamValues(target)
	return h.UnfollowUser(c)
}

// assertSymmetry checks the relationship invariant across every user the
// fake has seen: B in following(A) iff A in followers(B).
func assertSymmetry(t *testing.T, repo *fakeFollowRepo) {
	t.Helper()
	for a, following := range repo.following {
		for _, b := range following {
			assert.Contains(t, repo.followers[b], a,
				"%s follows %s but is missing from %s's followers", a, b, b)
		}
	}
	for b, followers := range repo.followers {
		for _, a := range followers {
			assert.Contains(t, repo.following[a], b,
				"%s is a follower of %s but %s is missing from %s's following", a, b, b, a)
		}
	}
}

func TestFollowSymmetry(t *testing.T) {
	repo := newFakeFollowRepo()
	h := NewFollowHandler(repo)

	require.NoError(t, follow(t, h, "alice", "bob"))
	assertSymmetry(t, repo)
	assert.Contains(t, repo.following["alice"], "bob")
	assert.Contains(t, repo.followers["bob"], "alice")

	require.NoError(t, follow(t, h, "carol", "bob"))
	assertSymmetry(t, repo)

	require.NoError(t, unfollow(t, h, "alice", "bob"))
	assertSymmetry(t, repo)
	assert.NotContains(t, repo.following["alice"], "bob")
	assert.NotContains(t, repo.followers["bob"], "alice")
	assert.Contains(t, repo.followers["bob"], "carol")
}

func TestFollowSymmetryUnderInterleavedEdits(t *testing.T) {
	repo := newFakeFollowRepo()
	h := NewFollowHandler(repo)

	// Interleave edits to bob's follower set from several parties.
	steps := []struct {
		op               func(t *testing.T, h *FollowHandler, follower, target string) error
		follower, target string
	}{
		{follow, "alice", "bob"},
		{follow, "bob", "alice"},
		{follow, "carol", "bob"},
		{unfollow, "alice", "bob"},
		{follow, "alice", "carol"},
		{follow, "alice", "bob"},
		{unfollow, "carol", "bob"},
		{unfollow, "bob", "alice"},
	}
	for _, step := range steps {
		require.NoError(t, step.op(t, h, step.follower, step.target))
		assertSymmetry(t, repo)
	}

	assert.ElementsMatch(t, []string{"alice"}, repo.followers["bob"])
	assert.ElementsMatch(t, []string{"bob", "carol"}, repo.following["alice"])
}

func TestFollowIsIdempotent(t *testing.T) {
	repo := newFakeFollowRepo()
	h := NewFollowHandler(repo)

	require.NoError(t, follow(t, h, "alice", "bob"))
	require.NoError(t, follow(t, h, "alice", "bob"))

	assert.Equal(t, []string{"bob"}, repo.following["alice"])
	assert.Equal(t, []string{"alice"}, repo.followers["bob"])
}

func TestUnfollowNonFollowedIsNoOp(t *testing.T) {
	repo := newFakeFollowRepo()
	h := NewFollowHandler(repo)

	require.NoError(t, unfollow(t, h, "alice", "bob"))
	assert.Empty(t, repo.following["alice"])
	assert.Empty(t, repo.followers["bob"])
}

func TestSelfFollowRejectedWithoutMutation(t *testing.T) {
	repo := newFakeFollowRepo()
	h := NewFollowHandler(repo)

	err := follow(t, h, "alice", "alice")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.Empty(t, repo.following["alice"])
	assert.Empty(t, repo.followers["alice"])
}

func TestSelfUnfollowIsNoOp(t *testing.T) {
	repo := newFakeFollowRepo()
	h := NewFollowHandler(repo)
	require.NoError(t, follow(t, h, "bob", "alice"))

	// A self-relationship can never exist, so removing one succeeds quietly.
	err := unfollow(t, h, "alice", "alice")
	assert.Equal(t, http.StatusOK, httpStatus(t, err))
	assert.ElementsMatch(t, []string{"bob"}, repo.followers["alice"])
}

func TestGetFollowStatus(t *testing.T) {
	repo := newFakeFollowRepo()
	h := NewFollowHandler(repo)
	require.NoError(t, follow(t, h, "alice", "bob"))

	following, err := repo.IsFollowing(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.True(t, following)

	following, err = repo.IsFollowing(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.False(t, following)
}
