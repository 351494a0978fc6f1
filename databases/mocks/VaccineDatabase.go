package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	models "github.com/linesmerrill/pet-health-api/models"
)

// VaccineDatabase is a mock type for the VaccineDatabase type
type VaccineDatabase struct {
	mock.Mock
}

// DeleteOne provides a mock function with given fields: ctx, id, userID
func (_m *VaccineDatabase) DeleteOne(ctx context.Context, id string, userID string) error {
	ret := _m.Called(ctx, id, userID)
	return ret.Error(0)
}

// FindByID provides a mock function with given fields: ctx, id, userID
func (_m *VaccineDatabase) FindByID(ctx context.Context, id string, userID string) (*models.VaccineRecord, error) {
	ret := _m.Called(ctx, id, userID)

	var r0 *models.VaccineRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.VaccineRecord)
	}
	return r0, ret.Error(1)
}

// FindByPet provides a mock function with given fields: ctx, petID, userID
func (_m *VaccineDatabase) FindByPet(ctx context.Context, petID string, userID string) ([]models.VaccineRecord, error) {
	ret := _m.Called(ctx, petID, userID)

	var r0 []models.VaccineRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.VaccineRecord)
	}
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, record
func (_m *VaccineDatabase) InsertOne(ctx context.Context, record *models.VaccineRecord) error {
	ret := _m.Called(ctx, record)
	return ret.Error(0)
}

// Update provides a mock function with given fields: ctx, record
func (_m *VaccineDatabase) Update(ctx context.Context, record *models.VaccineRecord) error {
	ret := _m.Called(ctx, record)
	return ret.Error(0)
}
