package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

const collectionActivity = "engineer_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

type mongoActivity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	EngineerID string             `bson:"engineer_id"`
	UserID     string             `bson:"user_id"`
	Action     string             `bson:"action"`
	At         time.Time          `bson:"at"`
}

// Insert persists an activity entry to the engineer_activity audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoActivity{
		ID:         primitive.NewObjectID(),
		EngineerID: a.EngineerID,
		UserID:     a.UserID,
		Action:     string(a.Action),
		At:         a.At.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	a.ID = doc.ID.Hex()
	return nil
}

func (r *ActivityRepository) ListByEngineer(ctx context.Context, engineerID string, limit int) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"engineer_id": engineerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}

	var docs []mongoActivity
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	out := make([]*domain.Activity, len(docs))
	for i, d := range docs {
		out[i] = &domain.Activity{
			ID:         d.ID.Hex(),
			EngineerID: d.EngineerID,
			UserID:     d.UserID,
			Action:     domain.ActivityAction(d.Action),
			At:         d.At.UTC(),
		}
	}
	return out, nil
}

// EnsureIndexes creates the lookup index on the activity collection.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "engineer_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
