package databases

// go generate: mockery --name TreatmentDatabase

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/pet-health-api/models"
)

const treatmentName = "treatments"

// TreatmentDatabase contains the methods to use with the treatment database
type TreatmentDatabase interface {
	FindByID(ctx context.Context, id, userID string) (*models.Treatment, error)
	FindByPet(ctx context.Context, petID, userID string) ([]models.Treatment, error)
	CreateWithMedications(ctx context.Context, treatment *models.Treatment, medications []models.Medication) error
	Update(ctx context.Context, treatment *models.Treatment) error
	Delete(ctx context.Context, id string) error
}

type treatmentDatabase struct {
	db DatabaseHelper
}

// NewTreatmentDatabase initializes a new instance of treatment database with the provided db connection
func NewTreatmentDatabase(db DatabaseHelper) TreatmentDatabase {
	return &treatmentDatabase{
		db: db,
	}
}

// FindByID loads a treatment. An empty userID skips the ownership scope and is
// meant for internal callers that already checked it.
func (c *treatmentDatabase) FindByID(ctx context.Context, id, userID string) (*models.Treatment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if userID != "" {
		filter["userId"] = userID
	}
	treatment := &models.Treatment{}
	err = c.db.Collection(treatmentName).FindOne(ctx, filter).Decode(treatment)
	if err != nil {
		return nil, err
	}
	return treatment, nil
}

func (c *treatmentDatabase) FindByPet(ctx context.Context, petID, userID string) ([]models.Treatment, error) {
	treatments := []models.Treatment{}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	cur, err := c.db.Collection(treatmentName).Find(ctx, bson.M{"petId": petID, "userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find treatments: %w", err)
	}
	defer cur.Close(ctx)
	if err = cur.All(ctx, &treatments); err != nil {
		return nil, fmt.Errorf("failed to decode treatments: %w", err)
	}
	return treatments, nil
}

// CreateWithMedications writes the treatment and all its medications in one
// transaction. On success the ids are set on the passed values.
func (c *treatmentDatabase) CreateWithMedications(ctx context.Context, treatment *models.Treatment, medications []models.Medication) error {
	now := time.Now()
	treatment.ID = primitive.NewObjectID()
	treatment.CreatedAt = now
	treatment.UpdatedAt = now

	docs := make([]interface{}, len(medications))
	for i := range medications {
		medications[i].ID = primitive.NewObjectID()
		medications[i].TreatmentID = treatment.ID.Hex()
		medications[i].CreatedAt = now
		medications[i].UpdatedAt = now
		docs[i] = medications[i]
	}

	err := c.db.Client().UseTransaction(ctx, func(txCtx context.Context) error {
		if _, err := c.db.Collection(treatmentName).InsertOne(txCtx, treatment); err != nil {
			return fmt.Errorf("failed to insert treatment: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := c.db.Collection(medicationName).InsertMany(txCtx, docs); err != nil {
			return fmt.Errorf("failed to insert medications: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	treatment.Medications = medications
	return nil
}

func (c *treatmentDatabase) Update(ctx context.Context, treatment *models.Treatment) error {
	treatment.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"cause":       treatment.Cause,
		"description": treatment.Description,
		"startDate":   treatment.StartDate,
		"endDate":     treatment.EndDate,
		"updatedAt":   treatment.UpdatedAt,
	}}
	res, err := c.db.Collection(treatmentName).UpdateOne(ctx, bson.M{"_id": treatment.ID, "userId": treatment.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update treatment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the treatment and cascades to its medications
func (c *treatmentDatabase) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return c.db.Client().UseTransaction(ctx, func(txCtx context.Context) error {
		if _, err := c.db.Collection(medicationName).DeleteMany(txCtx, bson.M{"treatmentId": id}); err != nil {
			return fmt.Errorf("failed to delete medications of treatment %s: %w", id, err)
		}
		n, err := c.db.Collection(treatmentName).DeleteOne(txCtx, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("failed to delete treatment %s: %w", id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
