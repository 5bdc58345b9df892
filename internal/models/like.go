package models

// Like marks a user's like on a post. The like's id doubles as the id of
// the notification it triggers, so unlike can remove it by id alone.
type Like struct {
	ID         string `json:"like_id" bson:"-"`
	PostID     string `json:"post_id" bson:"post_id"`
	UserHandle string `json:"user_handle" bson:"user_handle"`
}
