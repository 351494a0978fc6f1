package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	models "github.com/linesmerrill/pet-health-api/models"
)

// PetDatabase is a mock type for the PetDatabase type
type PetDatabase struct {
	mock.Mock
}

// DeleteOne provides a mock function with given fields: ctx, id, userID
func (_m *PetDatabase) DeleteOne(ctx context.Context, id string, userID string) error {
	ret := _m.Called(ctx, id, userID)
	return ret.Error(0)
}

// FindByID provides a mock function with given fields: ctx, id, userID
func (_m *PetDatabase) FindByID(ctx context.Context, id string, userID string) (*models.Pet, error) {
	ret := _m.Called(ctx, id, userID)

	var r0 *models.Pet
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Pet)
	}
	return r0, ret.Error(1)
}

// FindByUser provides a mock function with given fields: ctx, userID
func (_m *PetDatabase) FindByUser(ctx context.Context, userID string) ([]models.Pet, error) {
	ret := _m.Called(ctx, userID)

	var r0 []models.Pet
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Pet)
	}
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, pet
func (_m *PetDatabase) InsertOne(ctx context.Context, pet *models.Pet) error {
	ret := _m.Called(ctx, pet)
	return ret.Error(0)
}

// SetImage provides a mock function with given fields: ctx, id, userID, imageURL
func (_m *PetDatabase) SetImage(ctx context.Context, id string, userID string, imageURL string) error {
	ret := _m.Called(ctx, id, userID, imageURL)
	return ret.Error(0)
}

// Update provides a mock function with given fields: ctx, pet
func (_m *PetDatabase) Update(ctx context.Context, pet *models.Pet) error {
	ret := _m.Called(ctx, pet)
	return ret.Error(0)
}
