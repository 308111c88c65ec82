package services

import (
	"context"
	"fmt"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavingsService owns savings goals and their monotonic deposits.
type SavingsService struct {
	repo SavingsRepositoryI
}

// NewSavingsService creates a new instance of SavingsService.
func NewSavingsService(repo SavingsRepositoryI) *SavingsService {
	return &SavingsService{repo: repo}
}

// CreateGoal validates and stores a new savings goal. The initial balance
// may be zero but never negative.
func (s *SavingsService) CreateGoal(ctx context.Context, userID primitive.ObjectID, name string, target, initial float64) (*models.SavingsGoal, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if target <= 0 {
		return nil, ErrInvalidTarget
	}
	if initial < 0 {
		return nil, ErrInvalidAmount
	}

	goal := &models.SavingsGoal{
		UserID:  userID,
		Name:    name,
		Target:  target,
		Current: initial,
	}

	created, err := s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create savings goal: %w", err)
	}
	return created, nil
}

// Deposit adds a positive amount to the goal's balance. There is no
// withdrawal: the balance only ever grows.
func (s *SavingsService) Deposit(ctx context.Context, userID primitive.ObjectID, goalID string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	objID, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return fmt.Errorf("invalid savings goal ID: %v", err)
	}

	matched, err := s.repo.Deposit(ctx, objID, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}
	if !matched {
		return ErrNotFound
	}

	logger.Log.WithFields(map[string]interface{}{
		"savings_id": goalID,
		"amount":     amount,
	}).Info("Deposit recorded")
	return nil
}

// ListGoals returns the user's savings goals.
func (s *SavingsService) ListGoals(ctx context.Context, userID primitive.ObjectID) ([]models.SavingsGoal, error) {
	return s.repo.List(ctx, userID)
}

// DeleteGoal removes one of the user's savings goals.
func (s *SavingsService) DeleteGoal(ctx context.Context, userID primitive.ObjectID, goalID string) error {
	objID, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return fmt.Errorf("invalid savings goal ID: %v", err)
	}
	return s.repo.Delete(ctx, objID, userID)
}
