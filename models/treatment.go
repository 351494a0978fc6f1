package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Treatment holds the structure for the treatments collection in mongo
type Treatment struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PetID       string             `json:"petId" bson:"petId"`
	UserID      string             `json:"userId" bson:"userId"`
	Cause       string             `json:"cause" bson:"cause"`
	Description string             `json:"description" bson:"description"`
	StartDate   time.Time          `json:"startDate" bson:"startDate"`
	EndDate     *time.Time         `json:"endDate" bson:"endDate"`
	Medications []Medication       `json:"medications,omitempty" bson:"-"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DatesChanged reports whether the start or end date differs from other
func (t *Treatment) DatesChanged(other *Treatment) bool {
	if !t.StartDate.Equal(other.StartDate) {
		return true
	}
	return !sameOptionalTime(t.EndDate, other.EndDate)
}

func sameOptionalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
