package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavingsGoal tracks money put aside toward a target. Current only ever grows
// through deposits; there is no withdrawal operation.
type SavingsGoal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Target    float64            `bson:"target" json:"target"`
	Current   float64            `bson:"current" json:"current"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
