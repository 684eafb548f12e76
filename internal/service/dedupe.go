package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"rental-service/internal/errs"
	"rental-service/internal/notify"
)

// DedupeStore is the subset of the Redis client the guard needs.
type DedupeStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// DedupeGuard drops replays of requests that carry a DedupeKey. Requests
// without a key are passed through, so by default two identical calls still
// produce two notifications.
type DedupeGuard struct {
	next  Dispatcher
	store DedupeStore
	ttl   time.Duration
	log   *logrus.Entry
}

func NewDedupeGuard(next Dispatcher, store DedupeStore, ttl time.Duration, log *logrus.Entry) *DedupeGuard {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DedupeGuard{next: next, store: store, ttl: ttl, log: log}
}

func dedupeKey(req notify.DispatchRequest) string {
	return fmt.Sprintf("notify:dedupe:%s:%s:%s", req.RecipientID, req.Type, req.DedupeKey)
}

func (g *DedupeGuard) Dispatch(ctx context.Context, req notify.DispatchRequest) DispatchOutcome {
	if req.DedupeKey == "" || g.store == nil {
		return g.next.Dispatch(ctx, req)
	}

	key := dedupeKey(req)
	claimed, err := g.store.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		// Redis unavailable: deliver anyway, a duplicate beats a lost notice.
		g.log.WithError(err).WithField("key", key).Warn("dedupe claim failed, dispatching without guard")
		return g.next.Dispatch(ctx, req)
	}
	if !claimed {
		g.log.WithField("key", key).Info("duplicate dispatch dropped")
		return DispatchOutcome{Err: fmt.Errorf("%s: %w", key, errs.ErrDuplicateDispatch)}
	}

	out := g.next.Dispatch(ctx, req)
	if !out.NotificationCreated {
		// Nothing was stored, so let a retry through.
		if err := g.store.Del(ctx, key).Err(); err != nil {
			g.log.WithError(err).WithField("key", key).Warn("releasing dedupe key failed")
		}
	}
	return out
}
