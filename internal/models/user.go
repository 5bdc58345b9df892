package models

import "time"

// User is the profile document, keyed in the store by handle. The handle is
// immutable once created.
type User struct {
	Handle    string    `json:"handle" bson:"-"`
	UserID    string    `json:"user_id" bson:"user_id"` // Firebase UID
	Email     string    `json:"email" bson:"email"`
	ImageURL  string    `json:"image_url" bson:"image_url"`
	Bio       string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Website   string    `json:"website,omitempty" bson:"website,omitempty"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// AuthUser is the authenticated identity attached to the request context.
type AuthUser struct {
	Handle   string
	ImageURL string
}

// SignupRequest defines the request body for creating an account
type SignupRequest struct {
	Handle          string `json:"handle" validate:"required,min=2,max=30,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest defines the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the request body for updating profile details
type UpdateUserRequest struct {
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Website  string `json:"website,omitempty" validate:"omitempty,max=200"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

// UserAccount is the authenticated user's aggregate view.
type UserAccount struct {
	Credentials   User           `json:"credentials"`
	Likes         []Like         `json:"likes"`
	Notifications []Notification `json:"notifications"`
}

// UserProfile is the public view of a user and their posts.
type UserProfile struct {
	User  User   `json:"user"`
	Posts []Post `json:"posts"`
}
