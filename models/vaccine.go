package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VaccineRecord holds the structure for the vaccinerecords collection in mongo
type VaccineRecord struct {
	ID                 primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PetID              string             `json:"petId" bson:"petId"`
	UserID             string             `json:"userId" bson:"userId"`
	VaccineName        string             `json:"vaccineName" bson:"vaccineName"`
	AdministrationDate time.Time          `json:"administrationDate" bson:"administrationDate"`
	NextDueDate        *time.Time         `json:"nextDueDate" bson:"nextDueDate"`
	ValidUntil         *time.Time         `json:"validUntil" bson:"validUntil"`
	LotNumber          string             `json:"lotNumber,omitempty" bson:"lotNumber,omitempty"`
	AdministeredBy     string             `json:"administeredBy,omitempty" bson:"administeredBy,omitempty"`
	Notes              string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}
