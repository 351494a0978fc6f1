package databases

// go generate: mockery --name VaccineDatabase

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/pet-health-api/models"
)

const vaccineName = "vaccinerecords"

// VaccineDatabase contains the methods to use with the vaccine record database
type VaccineDatabase interface {
	FindByID(ctx context.Context, id, userID string) (*models.VaccineRecord, error)
	FindByPet(ctx context.Context, petID, userID string) ([]models.VaccineRecord, error)
	InsertOne(ctx context.Context, record *models.VaccineRecord) error
	Update(ctx context.Context, record *models.VaccineRecord) error
	DeleteOne(ctx context.Context, id, userID string) error
}

type vaccineDatabase struct {
	db DatabaseHelper
}

// NewVaccineDatabase initializes a new instance of vaccine record database with the provided db connection
func NewVaccineDatabase(db DatabaseHelper) VaccineDatabase {
	return &vaccineDatabase{
		db: db,
	}
}

func (c *vaccineDatabase) FindByID(ctx context.Context, id, userID string) (*models.VaccineRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	record := &models.VaccineRecord{}
	err = c.db.Collection(vaccineName).FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindByPet lists the vaccine records of a pet, most recent administration first
func (c *vaccineDatabase) FindByPet(ctx context.Context, petID, userID string) ([]models.VaccineRecord, error) {
	records := []models.VaccineRecord{}
	opts := options.Find().SetSort(bson.D{{Key: "administrationDate", Value: -1}})
	cur, err := c.db.Collection(vaccineName).Find(ctx, bson.M{"petId": petID, "userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find vaccine records: %w", err)
	}
	defer cur.Close(ctx)
	if err = cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode vaccine records: %w", err)
	}
	return records, nil
}

func (c *vaccineDatabase) InsertOne(ctx context.Context, record *models.VaccineRecord) error {
	now := time.Now()
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	if _, err := c.db.Collection(vaccineName).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert vaccine record: %w", err)
	}
	return nil
}

func (c *vaccineDatabase) Update(ctx context.Context, record *models.VaccineRecord) error {
	record.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"vaccineName":        record.VaccineName,
		"administrationDate": record.AdministrationDate,
		"nextDueDate":        record.NextDueDate,
		"validUntil":         record.ValidUntil,
		"lotNumber":          record.LotNumber,
		"administeredBy":     record.AdministeredBy,
		"notes":              record.Notes,
		"updatedAt":          record.UpdatedAt,
	}}
	res, err := c.db.Collection(vaccineName).UpdateOne(ctx, bson.M{"_id": record.ID, "userId": record.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update vaccine record: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *vaccineDatabase) DeleteOne(ctx context.Context, id, userID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	n, err := c.db.Collection(vaccineName).DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete vaccine record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
