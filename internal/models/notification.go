package models

import "time"

// Notification types.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

// Notification is derived state: it is only ever written by the reaction
// engine (creation, deletion) and the mark-read batch. Its id is borrowed
// from the triggering like or comment.
type Notification struct {
	ID        string    `json:"notification_id" bson:"-"`
	Recipient string    `json:"recipient" bson:"recipient"`
	Sender    string    `json:"sender" bson:"sender"`
	Type      string    `json:"type" bson:"type"`
	PostID    string    `json:"post_id" bson:"post_id"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
