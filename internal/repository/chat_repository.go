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

// ChatRepository handles the append-only chats collection.
type ChatRepository struct {
	collection *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{collection: db.Collection("chats")}
}

// Append stores one message and fills in its generated ID.
func (r *ChatRepository) Append(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	msg.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert chat message")
		return nil, err
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)
	return msg, nil
}

// History returns the user's conversation sorted oldest first.
func (r *ChatRepository) History(ctx context.Context, userID primitive.ObjectID) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch chat history")
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Watch opens the owner-scoped change feed for chats.
func (r *ChatRepository) Watch(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, <-chan error, error) {
	return watchOwner(ctx, r.collection, userID)
}
