package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rental-service/internal/errs"
	"rental-service/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrListingNotFound),
		errors.Is(err, errs.ErrReviewNotFound),
		errors.Is(err, errs.ErrNotificationNotFound),
		errors.Is(err, errs.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrDuplicateDispatch):
		return http.StatusConflict
	case errors.Is(err, errs.ErrUnknownEventKind),
		errors.Is(err, errs.ErrInvalidEvent),
		errors.Is(err, errs.ErrInvalidStatus),
		errors.Is(err, errs.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// dispatchResponse is the client view of a DispatchOutcome.
type dispatchResponse struct {
	NotificationCreated bool   `json:"notificationCreated"`
	EmailSent           bool   `json:"emailSent"`
	NotificationID      string `json:"notificationId,omitempty"`
	Error               string `json:"error,omitempty"`
}

func newDispatchResponse(out service.DispatchOutcome) dispatchResponse {
	r := dispatchResponse{
		NotificationCreated: out.NotificationCreated,
		EmailSent:           out.EmailSent,
	}
	if out.Notification != nil {
		r.NotificationID = out.Notification.ID
	}
	if out.Err != nil {
		r.Error = out.Err.Error()
	}
	return r
}
