package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/pkg/response"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, externalID string, limit int) ([]entity.Notification, error)
	MarkNotificationRead(ctx context.Context, externalID, notificationID string) error
}

type NotificationHandler struct {
	Svc    NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

// List returns the caller's notifications, newest first. ?limit= is capped
// by the service.
func (h *NotificationHandler) List(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"limit": "must be a positive integer"})
			return
		}
		limit = n
	}
	list, err := h.Svc.ListNotifications(c.Request.Context(), c.GetString(identityKey), limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	unread := 0
	for _, n := range list {
		if !n.IsRead {
			unread++
		}
	}
	response.Success(c, http.StatusOK, list, "notifications", map[string]any{"count": len(list), "unread": unread})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Svc.MarkNotificationRead(c.Request.Context(), c.GetString(identityKey), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"id": c.Param("id"), "is_read": true}, "notification marked as read", nil)
}
