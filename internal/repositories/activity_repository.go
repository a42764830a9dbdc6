package repositories

import (
	"context"
	"time"

	"github.com/anonto42/story-creator/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository stores the engagement event log.
type ActivityRepository interface {
	Record(ctx context.Context, activity *models.Activity) error
	ListByUser(ctx context.Context, userID uint, limit int64) ([]models.Activity, error)
}

// MongoActivityRepository implements ActivityRepository for MongoDB
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("user_activity")}
}

// EnsureIndexes creates the (user_id, timestamp) index used by ListByUser.
func (r *MongoActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}

func (r *MongoActivityRepository) Record(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, activity)
	return err
}

// ListByUser returns the user's most recent events first.
func (r *MongoActivityRepository) ListByUser(ctx context.Context, userID uint, limit int64) ([]models.Activity, error) {
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// NoopActivityRepository is used when MongoDB is not configured.
type NoopActivityRepository struct{}

func (NoopActivityRepository) Record(context.Context, *models.Activity) error { return nil }

func (NoopActivityRepository) ListByUser(context.Context, uint, int64) ([]models.Activity, error) {
	return []models.Activity{}, nil
}
