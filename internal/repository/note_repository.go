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

// NoteRepository handles the notes collection.
type NoteRepository struct {
	collection *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{
		collection: db.Collection("notes"),
	}
}

// Create inserts a new note and fills in its generated ID.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	note.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, note)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert note")
		return nil, err
	}
	note.ID = result.InsertedID.(primitive.ObjectID)
	return note, nil
}

// List fetches the user's notes, newest first.
func (r *NoteRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch notes")
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// SetCompleted updates the completed flag of a note.
func (r *NoteRepository) SetCompleted(ctx context.Context, id, userID primitive.ObjectID, completed bool) error {
	filter := bson.M{"_id": id, "user_id": userID}
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"completed": completed}})
	if err != nil {
		logger.Log.WithError(err).WithField("note_id", id.Hex()).Error("Failed to update note")
		return err
	}
	return nil
}

// GetByID fetches a single note.
func (r *NoteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Note, error) {
	var note models.Note
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Delete removes a note owned by the given user.
func (r *NoteRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("note_id", id.Hex()).Error("Failed to delete note")
		return err
	}
	return nil
}

// Watch opens the owner-scoped change feed for notes.
func (r *NoteRepository) Watch(ctx context.Context, userID primitive.ObjectID) (<-chan struct{}, <-chan error, error) {
	return watchOwner(ctx, r.collection, userID)
}
