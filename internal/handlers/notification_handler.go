package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"buzzline/internal/store"
)

// NotificationHandler handles HTTP requests related to notifications
type NotificationHandler struct {
	store store.Store
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(st store.Store) *NotificationHandler {
	return &NotificationHandler{store: st}
}

// MarkNotificationsRead flips the read flag on the given notification ids
// in one batch
func (h *NotificationHandler) MarkNotificationsRead(c echo.Context) error {
	var ids []string
	if err := c.Bind(&ids); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	batch := h.store.Batch()
	for _, id := range ids {
		batch.Update(store.Notifications, id, store.Document{"read": true})
	}
	if err := batch.Commit(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications marked as read"})
}
