package models

import "time"

// Comment belongs to a post and a user.
type Comment struct {
	ID         string    `json:"comment_id" bson:"-"`
	Body       string    `json:"body" bson:"body"`
	PostID     string    `json:"post_id" bson:"post_id"`
	UserHandle string    `json:"user_handle" bson:"user_handle"`
	UserImage  string    `json:"user_image" bson:"user_image"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// CreateCommentRequest defines the request body for commenting on a post.
// Emptiness after trimming is checked in the handler.
type CreateCommentRequest struct {
	Body string `json:"body"`
}
