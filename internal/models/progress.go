package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Progress is the single gamification document each identity owns: lifetime
// experience points and the current level. XP is cumulative and never reset
// on level-up.
type Progress struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	XP        float64            `bson:"xp" json:"xp"`
	Level     int                `bson:"level" json:"level"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
