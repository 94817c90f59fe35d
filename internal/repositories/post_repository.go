package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/artconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByUserID(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	CountPostsByUserID(ctx context.Context, userID string) (int64, error)
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, err error)
	AddComment(ctx context.Context, postID string, comment models.Comment) error
	IncrementShares(ctx context.Context, postID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("POSTS")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	post.Likes = 0
	post.LikedBy = []string{}
	post.Comments = 0
	post.CommentsList = []models.Comment{}
	post.Shares = 0
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: post id must be hex", models.ErrInvalidID)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByUserID retrieves posts by a specific user from MongoDB
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetAllPosts retrieves the feed from MongoDB with pagination, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates an existing post's editable fields in MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: post id must be hex", models.ErrInvalidID)
	}

	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":       post.Title,
			"description": post.Description,
			"image_url":   post.ImageURL,
			"is_for_sale": post.IsForSale,
			"price":       post.Price,
			"updated_at":  post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: post id must be hex", models.ErrInvalidID)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountPostsByUserID counts the posts owned by a user
func (r *MongoPostRepository) CountPostsByUserID(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
}

// toggleLikeUpdate builds the single atomic update for a like toggle: the
// counter change and the membership change travel in one document so
// concurrent toggles from different users never lose an update. The
// decrement is dropped when the stored counter is already 0.
func toggleLikeUpdate(liked bool, likes int, userID string) bson.M {
	if liked {
		update := bson.M{"$pull": bson.M{"likedBy": userID}}
		if likes > 0 {
			update["$inc"] = bson.M{"likes": -1}
		}
		return update
	}
	return bson.M{
		"$inc":      bson.M{"likes": 1},
		"$addToSet": bson.M{"likedBy": userID},
	}
}

// addCommentUpdate builds the single atomic update for a comment append:
// counter increment plus ordered list push.
func addCommentUpdate(comment models.Comment) bson.M {
	return bson.M{
		"$inc":  bson.M{"comments": 1},
		"$push": bson.M{"commentsList": comment},
	}
}

// ToggleLike flips the caller's like on a post. Returns true when the post
// is liked after the call. The membership read decides the direction; the
// write itself is one atomic increment-plus-set operation.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, fmt.Errorf("%w: post id must be hex", models.ErrInvalidID)
	}

	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return false, err
	}

	liked := post.HasLiked(userID)
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, toggleLikeUpdate(liked, post.Likes, userID))
	if err != nil {
		return false, err
	}
	// The post may vanish between the membership read and the write.
	if err := ensureMatched(res); err != nil {
		return false, err
	}
	return !liked, nil
}

// ensureMatched turns an update that matched no document into ErrNotFound.
func ensureMatched(res *mongo.UpdateResult) error {
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddComment appends a comment to the post's commentsList and increments the
// comments counter in the same update.
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: post id must be hex", models.ErrInvalidID)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, addCommentUpdate(comment))
	if err != nil {
		return err
	}
	return ensureMatched(res)
}

// IncrementShares increments the shares counter of a post. Every call
// increments; the caller fires it once per successful external share.
func (r *MongoPostRepository) IncrementShares(ctx context.Context, postID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: post id must be hex", models.ErrInvalidID)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"shares": 1}})
	if err != nil {
		return err
	}
	return ensureMatched(res)
}
