package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pet holds the structure for the pets collection in mongo
type Pet struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          string             `json:"userId" bson:"userId"`
	Name            string             `json:"name" bson:"name"`
	Dob             time.Time          `json:"dob" bson:"dob"`
	Weight          float64            `json:"weight" bson:"weight"`
	Type            string             `json:"type" bson:"type"`
	Breed           string             `json:"breed" bson:"breed"`
	Image           string             `json:"image" bson:"image"`
	Gender          string             `json:"gender" bson:"gender"`
	HasPetPlan      bool               `json:"hasPetPlan" bson:"hasPetPlan"`
	PetPlanName     string             `json:"petPlanName,omitempty" bson:"petPlanName,omitempty"`
	HasFuneraryPlan bool               `json:"hasFuneraryPlan" bson:"hasFuneraryPlan"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}
