package databases

// go generate: mockery --name MedicationDatabase

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/pet-health-api/models"
)

const medicationName = "medications"

// MedicationDatabase defines the interface for medication database operations
type MedicationDatabase interface {
	FindByID(ctx context.Context, id string) (*models.Medication, error)
	FindByTreatment(ctx context.Context, treatmentID string) ([]models.Medication, error)
	InsertOne(ctx context.Context, medication *models.Medication) error
	Update(ctx context.Context, medication *models.Medication) error
	DeleteOne(ctx context.Context, id string) error
}

// medicationDatabase implements MedicationDatabase
type medicationDatabase struct {
	db DatabaseHelper
}

// NewMedicationDatabase creates a new medication database instance
func NewMedicationDatabase(db DatabaseHelper) MedicationDatabase {
	return &medicationDatabase{
		db: db,
	}
}

// FindByID retrieves a single medication by ID
func (m *medicationDatabase) FindByID(ctx context.Context, id string) (*models.Medication, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	medication := &models.Medication{}
	err = m.db.Collection(medicationName).FindOne(ctx, bson.M{"_id": oid}).Decode(medication)
	if err != nil {
		return nil, err
	}
	return medication, nil
}

// FindByTreatment retrieves the medications of a treatment, oldest start first
func (m *medicationDatabase) FindByTreatment(ctx context.Context, treatmentID string) ([]models.Medication, error) {
	medications := []models.Medication{}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cur, err := m.db.Collection(medicationName).Find(ctx, bson.M{"treatmentId": treatmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find medications: %w", err)
	}
	defer cur.Close(ctx)
	if err = cur.All(ctx, &medications); err != nil {
		return nil, fmt.Errorf("failed to decode medications: %w", err)
	}
	return medications, nil
}

// InsertOne creates a new medication
func (m *medicationDatabase) InsertOne(ctx context.Context, medication *models.Medication) error {
	now := time.Now()
	medication.CreatedAt = now
	medication.UpdatedAt = now
	if medication.ID.IsZero() {
		medication.ID = primitive.NewObjectID()
	}

	_, err := m.db.Collection(medicationName).InsertOne(ctx, medication)
	if err != nil {
		return fmt.Errorf("failed to insert medication: %w", err)
	}
	return nil
}

// Update updates an existing medication
func (m *medicationDatabase) Update(ctx context.Context, medication *models.Medication) error {
	medication.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":      medication.Name,
			"dosage":    medication.Dosage,
			"frequency": medication.Frequency,
			"notes":     medication.Notes,
			"startDate": medication.StartDate,
			"endDate":   medication.EndDate,
			"updatedAt": medication.UpdatedAt,
		},
	}
	res, err := m.db.Collection(medicationName).UpdateOne(ctx, bson.M{"_id": medication.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOne deletes a medication by ID
func (m *medicationDatabase) DeleteOne(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	n, err := m.db.Collection(medicationName).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
