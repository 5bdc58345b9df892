package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"buzzline/internal/middleware"
	"buzzline/internal/models"
	"buzzline/internal/store"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	store store.Store
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(st store.Store) *CommentHandler {
	return &CommentHandler{store: st}
}

// CommentOnPost adds a comment to an existing post
func (h *CommentHandler) CommentOnPost(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFrom(c)
	postID := c.Param("postId")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if strings.TrimSpace(req.Body) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Must not be empty")
	}

	snap, err := h.store.Get(ctx, store.Posts, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !snap.Exists {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comment := models.Comment{
		Body:       req.Body,
		PostID:     postID,
		UserHandle: user.Handle,
		UserImage:  user.ImageURL,
		CreatedAt:  time.Now().UTC(),
	}

	id, err := h.store.Add(ctx, store.Comments, store.Document{
		"body":        comment.Body,
		"post_id":     comment.PostID,
		"user_handle": comment.UserHandle,
		"user_image":  comment.UserImage,
		"created_at":  comment.CreatedAt,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	comment.ID = id

	var post models.Post
	if err := snap.Data.Decode(&post); err == nil {
		_ = h.store.Update(ctx, store.Posts, postID,
			store.Document{"comment_count": post.CommentCount + 1})
	}

	return c.JSON(http.StatusCreated, comment)
}
