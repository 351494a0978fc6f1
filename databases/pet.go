package databases

// go generate: mockery --name PetDatabase

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/pet-health-api/models"
)

const petName = "pets"

// PetDatabase contains the methods to use with the pet database
type PetDatabase interface {
	FindByID(ctx context.Context, id, userID string) (*models.Pet, error)
	FindByUser(ctx context.Context, userID string) ([]models.Pet, error)
	InsertOne(ctx context.Context, pet *models.Pet) error
	Update(ctx context.Context, pet *models.Pet) error
	SetImage(ctx context.Context, id, userID, imageURL string) error
	DeleteOne(ctx context.Context, id, userID string) error
}

type petDatabase struct {
	db DatabaseHelper
}

// NewPetDatabase initializes a new instance of pet database with the provided db connection
func NewPetDatabase(db DatabaseHelper) PetDatabase {
	return &petDatabase{
		db: db,
	}
}

func (c *petDatabase) FindByID(ctx context.Context, id, userID string) (*models.Pet, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	pet := &models.Pet{}
	err = c.db.Collection(petName).FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(pet)
	if err != nil {
		return nil, err
	}
	return pet, nil
}

func (c *petDatabase) FindByUser(ctx context.Context, userID string) ([]models.Pet, error) {
	pets := []models.Pet{}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := c.db.Collection(petName).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pets: %w", err)
	}
	defer cur.Close(ctx)
	if err = cur.All(ctx, &pets); err != nil {
		return nil, fmt.Errorf("failed to decode pets: %w", err)
	}
	return pets, nil
}

func (c *petDatabase) InsertOne(ctx context.Context, pet *models.Pet) error {
	now := time.Now()
	if pet.ID.IsZero() {
		pet.ID = primitive.NewObjectID()
	}
	pet.CreatedAt = now
	pet.UpdatedAt = now
	if _, err := c.db.Collection(petName).InsertOne(ctx, pet); err != nil {
		return fmt.Errorf("failed to insert pet: %w", err)
	}
	return nil
}

func (c *petDatabase) Update(ctx context.Context, pet *models.Pet) error {
	pet.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":            pet.Name,
		"dob":             pet.Dob,
		"weight":          pet.Weight,
		"type":            pet.Type,
		"breed":           pet.Breed,
		"gender":          pet.Gender,
		"hasPetPlan":      pet.HasPetPlan,
		"petPlanName":     pet.PetPlanName,
		"hasFuneraryPlan": pet.HasFuneraryPlan,
		"updatedAt":       pet.UpdatedAt,
	}}
	return c.updateOne(ctx, bson.M{"_id": pet.ID, "userId": pet.UserID}, update)
}

// SetImage stores the hosted image url of a pet
func (c *petDatabase) SetImage(ctx context.Context, id, userID, imageURL string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"image": imageURL, "updatedAt": time.Now()}}
	return c.updateOne(ctx, bson.M{"_id": oid, "userId": userID}, update)
}

func (c *petDatabase) updateOne(ctx context.Context, filter, update interface{}) error {
	res, err := c.db.Collection(petName).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *petDatabase) DeleteOne(ctx context.Context, id, userID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	n, err := c.db.Collection(petName).DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
