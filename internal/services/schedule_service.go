package services

import (
	"context"
	"fmt"

	"github.com/walaz05/vivomejor/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleService owns the daily planner: one activity per hour slot.
type ScheduleService struct {
	repo ScheduleRepositoryI
}

// NewScheduleService creates a new instance of ScheduleService.
func NewScheduleService(repo ScheduleRepositoryI) *ScheduleService {
	return &ScheduleService{repo: repo}
}

// SetSlot writes the activity for an hour, replacing whatever was there.
// The upsert keys on (user, hour) so the same hour never holds two
// activities.
func (s *ScheduleService) SetSlot(ctx context.Context, userID primitive.ObjectID, hour int, description string) error {
	if hour < models.MinScheduleHour || hour > models.MaxScheduleHour {
		return ErrInvalidHour
	}
	if description == "" {
		return ErrEmptyText
	}

	if err := s.repo.Upsert(ctx, userID, hour, description); err != nil {
		return fmt.Errorf("failed to save schedule slot: %w", err)
	}
	return nil
}

// ListSlots returns the user's planned activities ordered by hour.
func (s *ScheduleService) ListSlots(ctx context.Context, userID primitive.ObjectID) ([]models.ScheduleSlot, error) {
	return s.repo.List(ctx, userID)
}

// ClearSlot removes the activity at the given hour, if any.
func (s *ScheduleService) ClearSlot(ctx context.Context, userID primitive.ObjectID, hour int) error {
	if hour < models.MinScheduleHour || hour > models.MaxScheduleHour {
		return ErrInvalidHour
	}
	return s.repo.DeleteByHour(ctx, userID, hour)
}
