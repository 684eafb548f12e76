package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/service"
)

// NotificationReader serves a recipient's own notifications.
type NotificationReader interface {
	List(ctx context.Context, userID string, filter model.NotificationFilter) ([]model.Notification, int64, error)
	Get(ctx context.Context, id, userID string) (*model.Notification, error)
	MarkAsRead(ctx context.Context, id, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// KindNotifier raises a notification from a string-keyed trigger.
type KindNotifier interface {
	NotifyKind(ctx context.Context, kind string, data map[string]string) service.DispatchOutcome
}

type NotificationHandler struct {
	svc      NotificationReader
	notifier KindNotifier
}

func NewNotificationHandler(svc NotificationReader, notifier KindNotifier) *NotificationHandler {
	return &NotificationHandler{svc: svc, notifier: notifier}
}

// GET /api/notifications?page=1&per_page=10&unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	f := model.NotificationFilter{Page: page, PerPage: perPage, UnreadOnly: unread}.Normalize()

	list, total, err := h.svc.List(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []model.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     list,
		"total":    total,
		"page":     f.Page,
		"per_page": f.PerPage,
	})
}

// GET /api/notifications/:id
func (h *NotificationHandler) Get(c *gin.Context) {
	n, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.CountUnread(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.svc.MarkAsRead(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	n, err := h.svc.MarkAllAsRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// POST /api/admin/notify/:kind
//
// Body is the event data, e.g. {"user_id":"u1","reviewer_name":"Alice"}.
// A stored notification whose email failed still answers 201.
func (h *NotificationHandler) Trigger(c *gin.Context) {
	var data map[string]string
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := h.notifier.NotifyKind(c.Request.Context(), c.Param("kind"), data)
	if !out.NotificationCreated {
		writeError(c, out.Err)
		return
	}
	c.JSON(http.StatusCreated, newDispatchResponse(out))
}
