package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rental-service/internal/errs"
	"rental-service/internal/model"
)

const notificationsCollection = "notifications"

// MongoNotificationRepository stores notifications as documents.
type MongoNotificationRepository struct {
	coll *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{coll: db.Collection(notificationsCollection)}
}

// EnsureIndexes creates the per-recipient index used by listing queries.
func (r *MongoNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("MongoNotificationRepository.EnsureIndexes: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.Read = false

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("MongoNotificationRepository.CreateNotification: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) ListNotifications(ctx context.Context, userID string, filter model.NotificationFilter) ([]model.Notification, int64, error) {
	filter = filter.Normalize()

	query := bson.M{"user_id": userID}
	if filter.UnreadOnly {
		query["read"] = false
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("MongoNotificationRepository.ListNotifications count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.PerPage))
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("MongoNotificationRepository.ListNotifications: %w", err)
	}
	defer cur.Close(ctx)

	list := make([]model.Notification, 0)
	if err := cur.All(ctx, &list); err != nil {
		return nil, 0, fmt.Errorf("MongoNotificationRepository.ListNotifications decode: %w", err)
	}
	return list, total, nil
}

func (r *MongoNotificationRepository) GetNotification(ctx context.Context, id, userID string) (*model.Notification, error) {
	var n model.Notification
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("MongoNotificationRepository.GetNotification: %w", err)
	}
	return &n, nil
}

func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id, userID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("MongoNotificationRepository.MarkAsRead: %w", err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotificationNotFound
	}
	return nil
}

func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("MongoNotificationRepository.MarkAllAsRead: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("MongoNotificationRepository.CountUnread: %w", err)
	}
	return n, nil
}
