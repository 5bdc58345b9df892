package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"buzzline/internal/middleware"
	"buzzline/internal/models"
	"buzzline/internal/store"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	store store.Store
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(st store.Store) *PostHandler {
	return &PostHandler{store: st}
}

// GetPosts retrieves all posts, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	snaps, err := h.store.Query(c.Request().Context(), store.Posts, nil, "created_at")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts := make([]models.Post, 0, len(snaps))
	for _, snap := range snaps {
		var post models.Post
		if err := snap.Data.Decode(&post); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		post.ID = snap.ID
		posts = append(posts, post)
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post, denormalizing the author's handle and image
func (h *PostHandler) CreatePost(c echo.Context) error {
	user := middleware.UserFrom(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := models.Post{
		Body:       req.Body,
		UserHandle: user.Handle,
		UserImage:  user.ImageURL,
		CreatedAt:  time.Now().UTC(),
	}

	id, err := h.store.Add(c.Request().Context(), store.Posts, store.Document{
		"body":          post.Body,
		"user_handle":   post.UserHandle,
		"user_image":    post.UserImage,
		"like_count":    0,
		"comment_count": 0,
		"created_at":    post.CreatedAt,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post.ID = id
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post together with its comments, newest first
func (h *PostHandler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()
	postID := c.Param("postId")

	snap, err := h.store.Get(ctx, store.Posts, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !snap.Exists {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	var details models.PostDetails
	if err := snap.Data.Decode(&details.Post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	details.ID = snap.ID

	comments, err := h.store.Query(ctx, store.Comments,
		[]store.Filter{{Field: "post_id", Value: postID}}, "created_at")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	details.Comments = make([]models.Comment, 0, len(comments))
	for _, cs := range comments {
		var comment models.Comment
		if err := cs.Data.Decode(&comment); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		comment.ID = cs.ID
		details.Comments = append(details.Comments, comment)
	}

	return c.JSON(http.StatusOK, details)
}

// DeletePost deletes the caller's post. The store delete is what triggers
// the cascading cleanup of comments, likes and notifications.
func (h *PostHandler) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFrom(c)
	postID := c.Param("postId")

	snap, err := h.store.Get(ctx, store.Posts, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !snap.Exists {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if snap.Data.String("user_handle") != user.Handle {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	}

	if err := h.store.Delete(ctx, store.Posts, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
