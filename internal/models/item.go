package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemKind discriminates the two variants stored in the shared user_items
// collection.
type ItemKind string

const (
	KindHabit ItemKind = "habit"
	KindGoal  ItemKind = "goal"
)

// Item is a tagged variant: a daily habit with a streak, or a vision-board
// goal with a plain completed flag. Which fields are meaningful depends on
// Kind; the service layer enforces the per-kind requirements on the way in.
type Item struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Kind   ItemKind           `bson:"kind" json:"kind"`
	Name   string             `bson:"name" json:"name"`

	// Habit fields. LastCompleted is absent until the first completion.
	Streak        int        `bson:"streak" json:"streak"`
	Target        int        `bson:"target,omitempty" json:"target,omitempty"`
	LastCompleted *time.Time `bson:"last_completed,omitempty" json:"last_completed,omitempty"`

	// Goal field.
	Completed bool `bson:"completed" json:"completed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
