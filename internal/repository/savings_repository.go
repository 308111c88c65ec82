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

// SavingsRepository handles the savings collection.
type SavingsRepository struct {
	collection *mongo.Collection
}

func NewSavingsRepository(db *mongo.Database) *SavingsRepository {
	return &SavingsRepository{
		collection: db.Collection("savings"),
	}
}

// Create inserts a new savings goal and fills in its generated ID.
func (r *SavingsRepository) Create(ctx context.Context, goal *models.SavingsGoal) (*models.SavingsGoal, error) {
	goal.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert savings goal")
		return nil, err
	}
	goal.ID = result.InsertedID.(primitive.ObjectID)

	logger.Log.WithField("savings_id", goal.ID.Hex()).Info("Savings goal created")
	return goal, nil
}

// List fetches the user's savings goals ordered by creation time.
func (r *SavingsRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.SavingsGoal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch savings goals")
		return nil, err
	}
	defer cursor.Close(ctx)

	var goals []models.SavingsGoal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// Deposit adds amount to the goal's current balance atomically. Returns false
// when no goal matched the (id, owner) pair.
func (r *SavingsRepository) Deposit(ctx context.Context, id, userID primitive.ObjectID, amount float64) (bool, error) {
	filter := bson.M{"_id": id, "user_id": userID}
	update := bson.M{"$inc": bson.M{"current": amount}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithField("savings_id", id.Hex()).Error("Failed to deposit")
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Delete removes a savings goal owned by the given user.
func (r *SavingsRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("savings_id", id.Hex()).Error("Failed to delete savings goal")
		return err
	}
	return nil
}

// Watch opens the owner-scoped change feed for savings.
func (r *SavingsRepository) Watch(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, <-chan error, error) {
	return watchOwner(ctx, r.collection, userID)
}
