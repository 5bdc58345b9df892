package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"buzzline/internal/middleware"
	"buzzline/internal/models"
	"buzzline/internal/store"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	store store.Store
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(st store.Store) *LikeHandler {
	return &LikeHandler{store: st}
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
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

	existing, err := h.store.Query(ctx, store.Likes, []store.Filter{
		{Field: "post_id", Value: postID},
		{Field: "user_handle", Value: user.Handle},
	}, "")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(existing) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Post already liked")
	}

	if _, err := h.store.Add(ctx, store.Likes, store.Document{
		"post_id":     postID,
		"user_handle": user.Handle,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var post models.Post
	if err := snap.Data.Decode(&post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	post.ID = snap.ID
	post.LikeCount++
	if err := h.store.Update(ctx, store.Posts, postID,
		store.Document{"like_count": post.LikeCount}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
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

	likes, err := h.store.Query(ctx, store.Likes, []store.Filter{
		{Field: "post_id", Value: postID},
		{Field: "user_handle", Value: user.Handle},
	}, "")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(likes) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Post not liked")
	}

	if err := h.store.Delete(ctx, store.Likes, likes[0].ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var post models.Post
	if err := snap.Data.Decode(&post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	post.ID = snap.ID
	if post.LikeCount > 0 {
		post.LikeCount--
	}
	if err := h.store.Update(ctx, store.Posts, postID,
		store.Document{"like_count": post.LikeCount}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}
