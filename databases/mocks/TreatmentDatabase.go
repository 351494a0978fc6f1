package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	models "github.com/linesmerrill/pet-health-api/models"
)

// TreatmentDatabase is a mock type for the TreatmentDatabase type
type TreatmentDatabase struct {
	mock.Mock
}

// CreateWithMedications provides a mock function with given fields: ctx, treatment, medications
func (_m *TreatmentDatabase) CreateWithMedications(ctx context.Context, treatment *models.Treatment, medications []models.Medication) error {
	ret := _m.Called(ctx, treatment, medications)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *TreatmentDatabase) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// FindByID provides a mock function with given fields: ctx, id, userID
func (_m *TreatmentDatabase) FindByID(ctx context.Context, id string, userID string) (*models.Treatment, error) {
	ret := _m.Called(ctx, id, userID)

	var r0 *models.Treatment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Treatment)
	}
	return r0, ret.Error(1)
}

// FindByPet provides a mock function with given fields: ctx, petID, userID
func (_m *TreatmentDatabase) FindByPet(ctx context.Context, petID string, userID string) ([]models.Treatment, error) {
	ret := _m.Called(ctx, petID, userID)

	var r0 []models.Treatment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Treatment)
	}
	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, treatment
func (_m *TreatmentDatabase) Update(ctx context.Context, treatment *models.Treatment) error {
	ret := _m.Called(ctx, treatment)
	return ret.Error(0)
}
