package services

import (
	"context"
	"time"

	"github.com/walaz05/vivomejor/internal/game"
	"github.com/walaz05/vivomejor/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository interfaces consumed by the services. The mongo-backed
// implementations live in internal/repository; tests substitute fakes.

type ItemRepositoryI interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	List(ctx context.Context, userID primitive.ObjectID, kind models.ItemKind) ([]models.Item, error)
	CompleteHabit(ctx context.Context, id, userID primitive.ObjectID, prev *time.Time, completedAt time.Time) (bool, error)
	SetGoalCompleted(ctx context.Context, id, userID primitive.ObjectID, completed bool) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

type SavingsRepositoryI interface {
	Create(ctx context.Context, goal *models.SavingsGoal) (*models.SavingsGoal, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]models.SavingsGoal, error)
	Deposit(ctx context.Context, id, userID primitive.ObjectID, amount float64) (bool, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

type ScheduleRepositoryI interface {
	Upsert(ctx context.Context, userID primitive.ObjectID, hour int, description string) error
	List(ctx context.Context, userID primitive.ObjectID) ([]models.ScheduleSlot, error)
	DeleteByHour(ctx context.Context, userID primitive.ObjectID, hour int) error
}

type NoteRepositoryI interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Note, error)
	SetCompleted(ctx context.Context, id, userID primitive.ObjectID, completed bool) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

type ChatRepositoryI interface {
	Append(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)
	History(ctx context.Context, userID primitive.ObjectID) ([]models.ChatMessage, error)
}

// XPAwarder is the slice of the gamification ledger the services call into.
// The per-session ledger implements it.
type XPAwarder interface {
	AwardXP(ctx context.Context, amount float64) (*game.Award, error)
}
