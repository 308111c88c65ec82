package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// The daily planner covers 5:00 through 23:00.
const (
	MinScheduleHour = 5
	MaxScheduleHour = 23
)

// ScheduleSlot is one planned activity. At most one slot exists per
// (user, hour) pair, enforced by upsert-by-hour in the repository.
type ScheduleSlot struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Hour        int                `bson:"hour" json:"hour"`
	Description string             `bson:"description" json:"description"`
}
