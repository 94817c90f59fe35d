package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents an artwork post stored in MongoDB.
//
// Likes and Comments are denormalized counters kept in sync with LikedBy and
// CommentsList by issuing the counter change and the set/list change in the
// same atomic update. Invariants: Likes == len(LikedBy),
// Comments == len(CommentsList).
type Post struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       string             `json:"user_id" bson:"user_id"` // Firebase UID of the author
	UserName     string             `json:"user_name" bson:"user_name"`
	UserEmail    string             `json:"user_email,omitempty" bson:"user_email,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL     string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Likes        int                `json:"likes" bson:"likes"`
	LikedBy      []string           `json:"liked_by" bson:"likedBy"`
	Comments     int                `json:"comments" bson:"comments"`
	CommentsList []Comment          `json:"comments_list" bson:"commentsList"`
	Shares       int                `json:"shares" bson:"shares"`
	IsForSale    bool               `json:"is_for_sale" bson:"is_for_sale"`
	Price        *float64           `json:"price,omitempty" bson:"price,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasLiked reports whether userID is in the post's likedBy membership set.
func (p *Post) HasLiked(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for publishing a new post
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=120"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
	IsForSale   bool     `json:"is_for_sale"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
	IsForSale   *bool    `json:"is_for_sale,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}
