package errs

import "errors"

var (
	// ErrUnknownEventKind is returned when a trigger names an event kind with no template.
	ErrUnknownEventKind = errors.New("unknown event kind")
	// ErrInvalidEvent indicates an event is missing required data (recipient, names).
	ErrInvalidEvent = errors.New("invalid event")
	// ErrStoreWriteFailed means the notification record could not be persisted.
	ErrStoreWriteFailed = errors.New("notification store write failed")
	// ErrEmailSendFailed means the notification was stored but its email was not sent.
	ErrEmailSendFailed = errors.New("email send failed")
	// ErrDuplicateDispatch is returned when a dedupe key has already been claimed.
	ErrDuplicateDispatch = errors.New("duplicate dispatch")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrForbidden         = errors.New("forbidden")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrListingNotFound      = errors.New("listing not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrUserNotFound         = errors.New("user not found")
)
