package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"rental-service/internal/model"
)

// UserDirectory looks up users owned by the user service.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*model.UserProfile, error)
}

// lookupUser never fails: an unknown or unreachable user yields a profile
// with only the ID set, which means "no email known".
func lookupUser(ctx context.Context, dir UserDirectory, log *logrus.Entry, userID string) model.UserProfile {
	if dir == nil || userID == "" {
		return model.UserProfile{ID: userID}
	}
	p, err := dir.GetUser(ctx, userID)
	if err != nil || p == nil {
		log.WithError(err).WithField("user_id", userID).Warn("user lookup failed")
		return model.UserProfile{ID: userID}
	}
	return *p
}
