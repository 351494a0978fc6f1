package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	models "github.com/linesmerrill/pet-health-api/models"
)

// MedicationDatabase is a mock type for the MedicationDatabase type
type MedicationDatabase struct {
	mock.Mock
}

// DeleteOne provides a mock function with given fields: ctx, id
func (_m *MedicationDatabase) DeleteOne(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *MedicationDatabase) FindByID(ctx context.Context, id string) (*models.Medication, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Medication
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Medication)
	}
	return r0, ret.Error(1)
}

// FindByTreatment provides a mock function with given fields: ctx, treatmentID
func (_m *MedicationDatabase) FindByTreatment(ctx context.Context, treatmentID string) ([]models.Medication, error) {
	ret := _m.Called(ctx, treatmentID)

	var r0 []models.Medication
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Medication)
	}
	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, medication
func (_m *MedicationDatabase) InsertOne(ctx context.Context, medication *models.Medication) error {
	ret := _m.Called(ctx, medication)
	return ret.Error(0)
}

// Update provides a mock function with given fields: ctx, medication
func (_m *MedicationDatabase) Update(ctx context.Context, medication *models.Medication) error {
	ret := _m.Called(ctx, medication)
	return ret.Error(0)
}
