package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medication holds the structure for the medications collection in mongo.
// Every medication belongs to exactly one treatment.
type Medication struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TreatmentID string             `json:"treatmentId" bson:"treatmentId"`
	Name        string             `json:"name" bson:"name"`
	Dosage      string             `json:"dosage" bson:"dosage"`
	Frequency   string             `json:"frequency" bson:"frequency"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`
	StartDate   time.Time          `json:"startDate" bson:"startDate"`
	EndDate     *time.Time         `json:"endDate" bson:"endDate"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
