package repository

import (
	"context"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScheduleRepository handles the schedule collection.
type ScheduleRepository struct {
	collection *mongo.Collection
}

func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	return &ScheduleRepository{
		collection: db.Collection("schedule"),
	}
}

// Upsert writes the slot description for (user, hour). The filter keys the
// write on the pair itself, which is what keeps the collection at one slot
// per hour without a database constraint.
func (r *ScheduleRepository) Upsert(ctx context.Context, userID primitive.ObjectID, hour int, description string) error {
	filter := bson.M{"user_id": userID, "hour": hour}
	update := bson.M{
		"$set":         bson.M{"description": description},
		"$setOnInsert": bson.M{"user_id": userID, "hour": hour},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"user_id": userID.Hex(),
			"hour":    hour,
		}).Error("Failed to upsert schedule slot")
		return err
	}
	return nil
}

// List fetches the user's slots ordered by hour.
func (r *ScheduleRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.ScheduleSlot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "hour", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch schedule")
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.ScheduleSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// DeleteByHour clears the slot at the given hour, if any.
func (r *ScheduleRepository) DeleteByHour(ctx context.Context, userID primitive.ObjectID, hour int) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "hour": hour})
	if err != nil {
		logger.Log.WithError(err).WithField("hour", hour).Error("Failed to delete schedule slot")
		return err
	}
	return nil
}

// Watch opens the owner-scoped change feed for the schedule.
func (r *ScheduleRepository) Watch(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, <-chan error, error) {
	return watchOwner(ctx, r.collection, userID)
}
