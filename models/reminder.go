package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority is the ordered urgency of a reminder
type Priority string

// Priority values, lowest first
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var priorityRank = map[Priority]int{
	PriorityLow:    0,
	PriorityMedium: 1,
	PriorityHigh:   2,
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Less reports whether p ranks below o
func (p Priority) Less(o Priority) bool {
	return priorityRank[p] < priorityRank[o]
}

// ReminderType tags where a reminder came from
type ReminderType string

// ReminderType values
const (
	ReminderTypeVaccineBooster    ReminderType = "VACCINE_BOOSTER"
	ReminderTypeTreatmentFollowUp ReminderType = "TREATMENT_FOLLOWUP"
	ReminderTypeMedication        ReminderType = "MEDICATION"
	ReminderTypeExam              ReminderType = "EXAM"
	ReminderTypeAppointment       ReminderType = "APPOINTMENT"
	ReminderTypeGeneral           ReminderType = "GENERAL"
)

// Valid reports whether t is one of the known reminder types
func (t ReminderType) Valid() bool {
	switch t {
	case ReminderTypeVaccineBooster, ReminderTypeTreatmentFollowUp, ReminderTypeMedication,
		ReminderTypeExam, ReminderTypeAppointment, ReminderTypeGeneral:
		return true
	}
	return false
}

// Related record types used for bulk cleanup of derived reminders
const (
	RelatedTreatment  = "treatment"
	RelatedMedication = "medication"
	RelatedVaccine    = "vaccine"
)

// Reminder holds the structure for the reminders collection in mongo
type Reminder struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title             string             `json:"title" bson:"title"`
	Description       string             `json:"description" bson:"description"`
	ReminderDate      time.Time          `json:"reminderDate" bson:"reminderDate"`
	Priority          Priority           `json:"priority" bson:"priority"`
	ReminderType      ReminderType       `json:"reminderType" bson:"reminderType"`
	UserID            string             `json:"userId" bson:"userId"`
	PetID             string             `json:"petId,omitempty" bson:"petId,omitempty"`
	RelatedRecordID   string             `json:"relatedRecordId,omitempty" bson:"relatedRecordId,omitempty"`
	RelatedRecordType string             `json:"relatedRecordType,omitempty" bson:"relatedRecordType,omitempty"`
	MedicationID      string             `json:"medicationId,omitempty" bson:"medicationId,omitempty"`
	IsCompleted       bool               `json:"isCompleted" bson:"isCompleted"`
	CompletedAt       *time.Time         `json:"completedAt" bson:"completedAt"`
	ViewedAt          *time.Time         `json:"viewedAt" bson:"viewedAt"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ErrInvalidReminder is wrapped by every Validate failure
var ErrInvalidReminder = errors.New("invalid reminder")

// Validate checks the reminder invariants before it is stored
func (r *Reminder) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidReminder)
	}
	if r.ReminderDate.IsZero() {
		return fmt.Errorf("%w: reminderDate is required", ErrInvalidReminder)
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidReminder, r.Priority)
	}
	if !r.ReminderType.Valid() {
		return fmt.Errorf("%w: unknown reminderType %q", ErrInvalidReminder, r.ReminderType)
	}
	if (r.RelatedRecordID == "") != (r.RelatedRecordType == "") {
		return fmt.Errorf("%w: relatedRecordId and relatedRecordType must be set together", ErrInvalidReminder)
	}
	if !r.IsCompleted && r.CompletedAt != nil {
		return fmt.Errorf("%w: completedAt set on an incomplete reminder", ErrInvalidReminder)
	}
	return nil
}

// ReminderFilter narrows reminder listings. Nil pointers mean "any".
type ReminderFilter struct {
	UserID       string
	PetID        string
	ReminderType ReminderType
	Priority     Priority
	IsCompleted  *bool
	IsUnread     *bool
}

// ReminderResponse is the paginated listing returned by the reminder endpoints
type ReminderResponse struct {
	Reminders  []Reminder `json:"reminders"`
	Pagination Pagination `json:"pagination"`
}
