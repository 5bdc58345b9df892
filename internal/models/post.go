package models

import "time"

// Post is a user post. user_image and the two counts are denormalized
// copies maintained out of band, so readers never join against users.
type Post struct {
	ID           string    `json:"post_id" bson:"-"`
	Body         string    `json:"body" bson:"body"`
	UserHandle   string    `json:"user_handle" bson:"user_handle"`
	UserImage    string    `json:"user_image" bson:"user_image"`
	LikeCount    int       `json:"like_count" bson:"like_count"`
	CommentCount int       `json:"comment_count" bson:"comment_count"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Body string `json:"body" validate:"required,min=1,max=1000"`
}

// PostDetails is a post together with its comments, newest first.
type PostDetails struct {
	Post
	Comments []Comment `json:"comments"`
}
