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

// ItemRepository handles the shared user_items collection holding both
// habits and vision-board goals, discriminated by the kind field.
type ItemRepository struct {
	collection *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{
		collection: db.Collection("user_items"),
	}
}

// Create inserts a new item and fills in its generated ID.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	item.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert item")
		return nil, err
	}
	item.ID = result.InsertedID.(primitive.ObjectID)

	logger.Log.WithFields(map[string]interface{}{
		"item_id": item.ID.Hex(),
		"kind":    item.Kind,
	}).Info("Item created")
	return item, nil
}

// GetByID fetches a single item.
func (r *ItemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var item models.Item
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// List fetches the user's items, optionally filtered by kind, ordered by
// creation time.
func (r *ItemRepository) List(ctx context.Context, userID primitive.ObjectID, kind models.ItemKind) ([]models.Item, error) {
	filter := bson.M{"user_id": userID}
	if kind != "" {
		filter["kind"] = kind
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch items")
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CompleteHabit applies one completion credit: streak +1 and a fresh
// last_completed stamp. The filter pins the last_completed value the caller
// read, so a concurrent completion that already advanced the habit makes
// this a no-op and the caller learns it lost the race from the false return.
func (r *ItemRepository) CompleteHabit(ctx context.Context, id, userID primitive.ObjectID, prev *time.Time, completedAt time.Time) (bool, error) {
	filter := bson.M{
		"_id":     id,
		"user_id": userID,
		"kind":    models.KindHabit,
	}
	if prev != nil {
		filter["last_completed"] = *prev
	} else {
		// Matches both a missing field and an explicit null.
		filter["last_completed"] = nil
	}

	update := bson.M{
		"$inc": bson.M{"streak": 1},
		"$set": bson.M{"last_completed": completedAt},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithField("item_id", id.Hex()).Error("Failed to complete habit")
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// SetGoalCompleted flips a goal's completed flag.
func (r *ItemRepository) SetGoalCompleted(ctx context.Context, id, userID primitive.ObjectID, completed bool) error {
	filter := bson.M{
		"_id":     id,
		"user_id": userID,
		"kind":    models.KindGoal,
	}

	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"completed": completed}})
	if err != nil {
		logger.Log.WithError(err).WithField("item_id", id.Hex()).Error("Failed to toggle goal")
		return err
	}
	return nil
}

// Delete removes an item owned by the given user.
func (r *ItemRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("item_id", id.Hex()).Error("Failed to delete item")
		return err
	}

	logger.Log.WithField("item_id", id.Hex()).Info("Item deleted")
	return nil
}

// Watch opens the owner-scoped change feed for user_items.
func (r *ItemRepository) Watch(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, <-chan error, error) {
	return watchOwner(ctx, r.collection, userID)
}
