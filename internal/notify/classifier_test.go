package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/errs"
	"rental-service/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		wantKind  Kind
		recipient string
		title     string
		content   string
		link      string
		notifType model.NotificationType
		email     string
	}{
		{
			name:      "new message",
			event:     NewMessage{RecipientID: "u2", SenderName: "Bob", RecipientEmail: "u2@example.com"},
			wantKind:  KindNewMessage,
			recipient: "u2",
			title:     "New Message",
			content:   "You have a new message from Bob",
			link:      "/messages",
			notifType: model.NotificationMessage,
			email:     "u2@example.com",
		},
		{
			name:      "booking request",
			event:     NewBookingRequest{OwnerID: "owner-1", RequesterName: "Carol"},
			wantKind:  KindNewBookingRequest,
			recipient: "owner-1",
			title:     "New Viewing Request",
			content:   "Carol requested a viewing of your room",
			link:      "/appointments",
			notifType: model.NotificationBooking,
		},
		{
			name:      "listing approved",
			event:     ListingApproved{OwnerID: "owner-1", ListingTitle: "Sunny room", OwnerEmail: "o@example.com"},
			wantKind:  KindListingApproved,
			recipient: "owner-1",
			title:     "Listing Approved",
			content:   `Your listing "Sunny room" has been approved`,
			link:      "/listings",
			notifType: model.NotificationListing,
			email:     "o@example.com",
		},
		{
			name:      "new review",
			event:     NewReview{UserID: "u1", ReviewerName: "Alice", UserEmail: "a@example.com"},
			wantKind:  KindNewReview,
			recipient: "u1",
			title:     "New Review",
			content:   "Alice left you a new review",
			link:      "/profile",
			notifType: model.NotificationReview,
			email:     "a@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Classify(tt.event)
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, req.Kind)
			assert.Equal(t, tt.recipient, req.RecipientID)
			assert.Equal(t, tt.title, req.Title)
			assert.Equal(t, tt.content, req.Content)
			assert.Equal(t, tt.link, req.Link)
			assert.Equal(t, tt.notifType, req.Type)
			assert.Equal(t, tt.email, req.RecipientEmail)
			assert.True(t, req.RequireEmail)
		})
	}
}

func TestClassify_RejectsIncompleteEvents(t *testing.T) {
	_, err := Classify(NewReview{ReviewerName: "Alice"})
	assert.ErrorIs(t, err, errs.ErrInvalidEvent)

	_, err = Classify(NewMessage{RecipientID: "u1"})
	assert.ErrorIs(t, err, errs.ErrInvalidEvent)

	_, err = Classify(nil)
	assert.ErrorIs(t, err, errs.ErrUnknownEventKind)
}

func TestClassifyKind(t *testing.T) {
	t.Run("every supported kind resolves", func(t *testing.T) {
		data := map[string]string{
			"recipient_id":   "u1",
			"sender_name":    "Bob",
			"owner_id":       "u1",
			"requester_name": "Bob",
			"listing_title":  "Loft",
			"user_id":        "u1",
			"reviewer_name":  "Bob",
		}
		for _, kind := range Kinds {
			req, err := ClassifyKind(string(kind), data)
			require.NoError(t, err, kind)
			assert.Equal(t, kind, req.Kind)
			assert.Equal(t, "u1", req.RecipientID)
		}
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		req, err := ClassifyKind("bogus", map[string]string{})
		assert.ErrorIs(t, err, errs.ErrUnknownEventKind)
		assert.Empty(t, req.Title)
	})

	t.Run("dedupe key is carried", func(t *testing.T) {
		req, err := ClassifyKind("new_review", map[string]string{
			"user_id":       "u1",
			"reviewer_name": "Alice",
			"dedupe_key":    " review-42 ",
		})
		require.NoError(t, err)
		assert.Equal(t, "review-42", req.DedupeKey)
	})
}

func TestDispatchRequest_Notification(t *testing.T) {
	req, err := Classify(NewReview{UserID: "u1", ReviewerName: "Alice"})
	require.NoError(t, err)

	n := req.Notification()
	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, model.NotificationReview, n.Type)
	require.NotNil(t, n.Link)
	assert.Equal(t, "/profile", *n.Link)
	assert.False(t, n.Read)

	n = DispatchRequest{RecipientID: "u1"}.Notification()
	assert.Nil(t, n.Link)
}
