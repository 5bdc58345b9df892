package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"buzzline/internal/middleware"
	"buzzline/internal/models"
	"buzzline/internal/store"
)

// Uploader stores a profile image and returns its public URL.
type Uploader interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	store    store.Store
	uploader Uploader
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(st store.Store, uploader Uploader) *UserHandler {
	return &UserHandler{store: st, uploader: uploader}
}

// AddUserDetails merges profile details into the caller's user document
func (h *UserHandler) AddUserDetails(c echo.Context) error {
	user := middleware.UserFrom(c)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	details := store.Document{}
	if bio := strings.TrimSpace(req.Bio); bio != "" {
		details["bio"] = bio
	}
	if website := strings.TrimSpace(req.Website); website != "" {
		if !strings.HasPrefix(website, "http") {
			website = "http://" + website
		}
		details["website"] = website
	}
	if location := strings.TrimSpace(req.Location); location != "" {
		details["location"] = location
	}

	if len(details) > 0 {
		if err := h.store.Update(c.Request().Context(), store.Users, user.Handle, details); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Details added successfully"})
}

// GetAuthenticatedUser returns the caller's credentials, likes and
// notifications in one aggregate
func (h *UserHandler) GetAuthenticatedUser(c echo.Context) error {
	ctx := c.Request().Context()
	authUser := middleware.UserFrom(c)

	snap, err := h.store.Get(ctx, store.Users, authUser.Handle)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !snap.Exists {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var account models.UserAccount
	if err := snap.Data.Decode(&account.Credentials); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	account.Credentials.Handle = snap.ID

	likes, err := h.store.Query(ctx, store.Likes,
		[]store.Filter{{Field: "user_handle", Value: authUser.Handle}}, "")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	account.Likes = make([]models.Like, 0, len(likes))
	for _, ls := range likes {
		var like models.Like
		if err := ls.Data.Decode(&like); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		like.ID = ls.ID
		account.Likes = append(account.Likes, like)
	}

	notifications, err := h.store.Query(ctx, store.Notifications,
		[]store.Filter{{Field: "recipient", Value: authUser.Handle}}, "created_at")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	account.Notifications = make([]models.Notification, 0, len(notifications))
	for _, ns := range notifications {
		var notification models.Notification
		if err := ns.Data.Decode(&notification); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		notification.ID = ns.ID
		account.Notifications = append(account.Notifications, notification)
	}

	return c.JSON(http.StatusOK, account)
}

// GetUserDetails returns a user's public profile and their posts
func (h *UserHandler) GetUserDetails(c echo.Context) error {
	ctx := c.Request().Context()
	handle := c.Param("handle")

	snap, err := h.store.Get(ctx, store.Users, handle)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !snap.Exists {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var profile models.UserProfile
	if err := snap.Data.Decode(&profile.User); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	profile.User.Handle = snap.ID

	posts, err := h.store.Query(ctx, store.Posts,
		[]store.Filter{{Field: "user_handle", Value: handle}}, "created_at")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	profile.Posts = make([]models.Post, 0, len(posts))
	for _, ps := range posts {
		var post models.Post
		if err := ps.Data.Decode(&post); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		post.ID = ps.ID
		profile.Posts = append(profile.Posts, post)
	}

	return c.JSON(http.StatusOK, profile)
}

// UploadImage stores a new profile image and points the user document at
// it. The image_url change is what triggers fan-out onto the user's posts.
func (h *UserHandler) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFrom(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is missing")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		return echo.NewHTTPError(http.StatusBadRequest, "Wrong file format submitted")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	imageURL, err := h.uploader.Save(ctx, name, contentType, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.store.Update(ctx, store.Users, user.Handle,
		store.Document{"image_url": imageURL}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Image uploaded successfully"})
}
