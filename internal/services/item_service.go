package services

import (
	"context"
	"fmt"
	"time"

	"github.com/walaz05/vivomejor/internal/models"
	"github.com/walaz05/vivomejor/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// XP rewards for the two gamified transitions.
const (
	HabitCompletionXP = 50
	GoalCompletionXP  = 200
)

// DefaultHabitTarget is used when a habit is created without a target.
const DefaultHabitTarget = 7

// ItemService owns habits and vision-board goals, including the daily streak
// state machine.
type ItemService struct {
	repo ItemRepositoryI
	now  func() time.Time
}

// NewItemService creates a new instance of ItemService.
func NewItemService(repo ItemRepositoryI) *ItemService {
	return &ItemService{repo: repo, now: time.Now}
}

// CreateItem validates the per-kind required fields and stores the item.
func (s *ItemService) CreateItem(ctx context.Context, userID primitive.ObjectID, kind models.ItemKind, name string, target int) (*models.Item, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	item := &models.Item{
		UserID: userID,
		Kind:   kind,
		Name:   name,
	}

	switch kind {
	case models.KindHabit:
		if target == 0 {
			target = DefaultHabitTarget
		}
		if target < 0 {
			return nil, ErrInvalidTarget
		}
		item.Target = target
		item.Streak = 0
	case models.KindGoal:
		item.Completed = false
	default:
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return created, nil
}

// ListItems returns the user's items, optionally filtered by kind.
func (s *ItemService) ListItems(ctx context.Context, userID primitive.ObjectID, kind models.ItemKind) ([]models.Item, error) {
	return s.repo.List(ctx, userID, kind)
}

// DeleteItem removes one of the user's items.
func (s *ItemService) DeleteItem(ctx context.Context, userID primitive.ObjectID, itemID string) error {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return fmt.Errorf("invalid item ID: %v", err)
	}
	return s.repo.Delete(ctx, objID, userID)
}

// CompleteToday grants a habit its one completion credit for the current
// calendar day: streak +1, last_completed stamped, fixed XP awarded. A habit
// already completed today comes back as ErrAlreadyCompletedToday with no
// state change and no XP. The write is conditional on the last_completed
// value that was read, so two same-day submissions racing each other cannot
// both increment the streak.
func (s *ItemService) CompleteToday(ctx context.Context, userID primitive.ObjectID, itemID string, awards XPAwarder) (*models.Item, error) {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item ID: %v", err)
	}

	item, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, ErrNotFound
	}
	if item.UserID != userID {
		return nil, ErrWrongOwner
	}
	if item.Kind != models.KindHabit {
		return nil, ErrWrongKind
	}

	now := s.now()
	if item.LastCompleted != nil && sameCalendarDay(*item.LastCompleted, now) {
		return nil, ErrAlreadyCompletedToday
	}

	matched, err := s.repo.CompleteHabit(ctx, objID, userID, item.LastCompleted, now)
	if err != nil {
		return nil, fmt.Errorf("failed to complete habit: %w", err)
	}
	if !matched {
		// Lost the race against another completion of the same day.
		return nil, ErrAlreadyCompletedToday
	}

	item.Streak++
	item.LastCompleted = &now

	if _, err := awards.AwardXP(ctx, HabitCompletionXP); err != nil {
		// The streak is already persisted; a failed award is logged, not
		// rolled back.
		logger.Log.WithError(err).WithField("item_id", itemID).Warn("Failed to award habit XP")
	}

	logger.Log.WithFields(map[string]interface{}{
		"item_id": itemID,
		"streak":  item.Streak,
	}).Info("Habit completed for today")
	return item, nil
}

// ToggleGoal flips a goal's completed flag. Only the false to true edge
// awards XP; toggling back never revokes what was already granted.
func (s *ItemService) ToggleGoal(ctx context.Context, userID primitive.ObjectID, itemID string, awards XPAwarder) (*models.Item, error) {
	objID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item ID: %v", err)
	}

	item, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, ErrNotFound
	}
	if item.UserID != userID {
		return nil, ErrWrongOwner
	}
	if item.Kind != models.KindGoal {
		return nil, ErrWrongKind
	}

	completed := !item.Completed
	if err := s.repo.SetGoalCompleted(ctx, objID, userID, completed); err != nil {
		return nil, fmt.Errorf("failed to toggle goal: %w", err)
	}
	item.Completed = completed

	if completed {
		if _, err := awards.AwardXP(ctx, GoalCompletionXP); err != nil {
			logger.Log.WithError(err).WithField("item_id", itemID).Warn("Failed to award goal XP")
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"item_id":   itemID,
		"completed": completed,
	}).Info("Goal toggled")
	return item, nil
}

// sameCalendarDay compares date-only, in local time, ignoring time of day.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
