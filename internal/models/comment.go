package models

import "time"

// Comment is one entry in a post's append-only commentsList. Comments are
// immutable once appended; there is no edit or delete path.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"userId"`
	UserName  string    `json:"user_name" bson:"userName"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
