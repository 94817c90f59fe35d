package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/artconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// The like toggle and comment append must each be a single update document
// combining the counter change and the set/list change, so the denormalized
// counters can never drift from their membership under concurrent writers.

func TestToggleLikeUpdateLike(t *testing.T) {
	update := toggleLikeUpdate(false, 0, "u1")

	require.Contains(t, update, "$inc")
	require.Contains(t, update, "$addToSet")
	assert.NotContains(t, update, "$pull")
	assert.Equal(t, bson.M{"likes": 1}, update["$inc"])
	assert.Equal(t, bson.M{"likedBy": "u1"}, update["$addToSet"])
}

func TestToggleLikeUpdateUnlike(t *testing.T) {
	update := toggleLikeUpdate(true, 3, "u1")

	require.Contains(t, update, "$inc")
	require.Contains(t, update, "$pull")
	assert.NotContains(t, update, "$addToSet")
	assert.Equal(t, bson.M{"likes": -1}, update["$inc"])
	assert.Equal(t, bson.M{"likedBy": "u1"}, update["$pull"])
}

func TestToggleLikeUpdateFloorsCounterAtZero(t *testing.T) {
	// A stored counter of 0 with a stale membership entry must not go
	// negative: the membership is still pulled but the decrement is dropped.
	update := toggleLikeUpdate(true, 0, "u1")

	assert.NotContains(t, update, "$inc")
	assert.Equal(t, bson.M{"likedBy": "u1"}, update["$pull"])
}

func TestAddCommentUpdate(t *testing.T) {
	comment := models.Comment{
		ID:        "c1",
		UserID:    "u1",
		UserName:  "Ada",
		Text:      "lovely",
		CreatedAt: time.Now(),
	}
	update := addCommentUpdate(comment)

	require.Contains(t, update, "$inc")
	require.Contains(t, update, "$push")
	assert.Equal(t, bson.M{"comments": 1}, update["$inc"])
	assert.Equal(t, bson.M{"commentsList": comment}, update["$push"])
}

// A malformed document ID can never become valid, so it must come back as a
// terminal error the retry policy refuses to re-run, not as a transient
// store failure.
func TestMalformedPostIDIsTerminal(t *testing.T) {
	r := &MongoPostRepository{}
	ctx := context.Background()

	_, err := r.GetPostByID(ctx, "not-a-hex-id")
	require.ErrorIs(t, err, models.ErrInvalidID)
	assert.True(t, models.IsTerminal(err))

	_, err = r.ToggleLike(ctx, "not-a-hex-id", "u1")
	require.ErrorIs(t, err, models.ErrInvalidID)

	err = r.AddComment(ctx, "not-a-hex-id", models.Comment{Text: "hi"})
	require.ErrorIs(t, err, models.ErrInvalidID)

	err = r.IncrementShares(ctx, "not-a-hex-id")
	require.ErrorIs(t, err, models.ErrInvalidID)
}

func TestMalformedPurchaseIDIsTerminal(t *testing.T) {
	r := &MongoPurchaseRepository{}
	ctx := context.Background()

	_, err := r.GetPurchaseByID(ctx, "not-a-hex-id")
	require.ErrorIs(t, err, models.ErrInvalidID)
	assert.True(t, models.IsTerminal(err))

	err = r.UpdateStatus(ctx, "not-a-hex-id", models.StatusPending, models.StatusConfirmed, time.Now())
	require.ErrorIs(t, err, models.ErrInvalidID)
}

func TestEnsureMatched(t *testing.T) {
	assert.ErrorIs(t, ensureMatched(&mongo.UpdateResult{MatchedCount: 0}), models.ErrNotFound)
	assert.NoError(t, ensureMatched(&mongo.UpdateResult{MatchedCount: 1}))
}
