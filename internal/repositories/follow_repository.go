package repositories

import (
	"context"

	"github.com/artconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FollowRepository defines the interface for follow relationship operations
type FollowRepository interface {
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	GetFollowers(ctx context.Context, userID string) ([]string, error)
	GetFollowing(ctx context.Context, userID string) ([]string, error)
	GetFollowersCount(ctx context.Context, userID string) (int64, error)
	GetFollowingCount(ctx context.Context, userID string) (int64, error)
}

// MongoFollowRepository keeps one FOLLOWING doc and one FOLLOWERS doc per
// user, each holding a membership set. Both sides of a relationship are
// written with upserted $addToSet / $pull, so a retried Follow or Unfollow
// converges to the same final state.
type MongoFollowRepository struct {
	followers *mongo.Collection
	following *mongo.Collection
}

// NewMongoFollowRepository creates a new MongoFollowRepository
func NewMongoFollowRepository(db *mongo.Database) *MongoFollowRepository {
	return &MongoFollowRepository{
		followers: db.Collection("FOLLOWERS"),
		following: db.Collection("FOLLOWING"),
	}
}

// Follow adds targetID to the follower's following-set and followerID to the
// target's followers-set. The following-doc is written first; a partial
// failure leaves a state a retry repairs.
func (r *MongoFollowRepository) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return models.ErrSelfFollow
	}

	upsert := options.Update().SetUpsert(true)
	_, err := r.following.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$addToSet": bson.M{"following": targetID}},
		upsert,
	)
	if err != nil {
		return err
	}

	_, err = r.followers.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": followerID}},
		upsert,
	)
	return err
}

// Unfollow removes the relationship from both sets. Unfollowing a
// non-followed target is a no-op, not an error, and a self-relationship can
// never exist, so unfollowing oneself is covered by the same contract.
func (r *MongoFollowRepository) Unfollow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return nil
	}

	_, err := r.following.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$pull": bson.M{"following": targetID}},
	)
	if err != nil {
		return err
	}

	_, err = r.followers.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": followerID}},
	)
	return err
}

// IsFollowing checks membership in the follower's following-set.
func (r *MongoFollowRepository) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	count, err := r.following.CountDocuments(ctx, bson.M{
		"_id":       followerID,
		"following": targetID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers returns the followers-set of a user. A missing doc reads as
// an empty set.
func (r *MongoFollowRepository) GetFollowers(ctx context.Context, userID string) ([]string, error) {
	var doc models.FollowersDoc
	err := r.followers.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return []string{}, nil
		}
		return nil, err
	}
	return doc.Followers, nil
}

// GetFollowing returns the following-set of a user
func (r *MongoFollowRepository) GetFollowing(ctx context.Context, userID string) ([]string, error) {
	var doc models.FollowingDoc
	err := r.following.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return []string{}, nil
		}
		return nil, err
	}
	return doc.Following, nil
}

// GetFollowersCount returns the size of a user's followers-set
func (r *MongoFollowRepository) GetFollowersCount(ctx context.Context, userID string) (int64, error) {
	followers, err := r.GetFollowers(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(followers)), nil
}

// GetFollowingCount returns the size of a user's following-set
func (r *MongoFollowRepository) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	following, err := r.GetFollowing(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(following)), nil
}
