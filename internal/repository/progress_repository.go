package repository

import (
	"context"
	"time"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProgressRepository handles the single progress document each user owns.
type ProgressRepository struct {
	collection *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{
		collection: db.Collection("progress"),
	}
}

// Ensure creates the progress document with level 1 and zero XP if the user
// does not have one yet. The $setOnInsert upsert makes concurrent
// initializations merge instead of stomping each other.
func (r *ProgressRepository) Ensure(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"xp":         float64(0),
			"level":      1,
			"updated_at": time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to ensure progress document")
		return err
	}
	return nil
}

// Get fetches the user's progress document.
func (r *ProgressRepository) Get(ctx context.Context, userID primitive.ObjectID) (*models.Progress, error) {
	var progress models.Progress
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&progress)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// SetProgress persists xp and level as a partial update. Unrelated fields of
// the document stay untouched; the upsert covers a user whose document was
// never initialized.
func (r *ProgressRepository) SetProgress(ctx context.Context, userID primitive.ObjectID, xp float64, level int) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"xp":         xp,
			"level":      level,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{"user_id": userID},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to persist progress")
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID.Hex(),
		"xp":      xp,
		"level":   level,
	}).Info("Progress persisted")
	return nil
}

// Watch opens the owner-scoped change feed for the progress document.
func (r *ProgressRepository) Watch(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, <-chan error, error) {
	return watchOwner(ctx, r.collection, userID)
}
