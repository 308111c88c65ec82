package services

import (
	"context"
	"fmt"

	"github.com/walaz05/vivomejor/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoteService owns the sticky notes.
type NoteService struct {
	repo NoteRepositoryI
}

// NewNoteService creates a new instance of NoteService.
func NewNoteService(repo NoteRepositoryI) *NoteService {
	return &NoteService{repo: repo}
}

// AddNote validates and stores a note.
func (s *NoteService) AddNote(ctx context.Context, userID primitive.ObjectID, text, color string) (*models.Note, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if color == "" {
		color = "yellow"
	}
	if !models.AllowedNoteColors[color] {
		return nil, ErrInvalidColor
	}

	note := &models.Note{
		UserID:    userID,
		Text:      text,
		Color:     color,
		Completed: false,
	}

	created, err := s.repo.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return created, nil
}

// ToggleNote flips a note's completed flag.
func (s *NoteService) ToggleNote(ctx context.Context, userID primitive.ObjectID, noteID string) (*models.Note, error) {
	objID, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, fmt.Errorf("invalid note ID: %v", err)
	}

	note, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, ErrNotFound
	}
	if note.UserID != userID {
		return nil, ErrWrongOwner
	}

	note.Completed = !note.Completed
	if err := s.repo.SetCompleted(ctx, objID, userID, note.Completed); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// ListNotes returns the user's notes, newest first.
func (s *NoteService) ListNotes(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error) {
	return s.repo.List(ctx, userID)
}

// DeleteNote removes one of the user's notes.
func (s *NoteService) DeleteNote(ctx context.Context, userID primitive.ObjectID, noteID string) error {
	objID, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return fmt.Errorf("invalid note ID: %v", err)
	}
	return s.repo.Delete(ctx, objID, userID)
}
