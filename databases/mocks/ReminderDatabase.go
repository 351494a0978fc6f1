package mocks

import (
	context "context"
	time "time"

	mock "github.com/stretchr/testify/mock"

	models "github.com/linesmerrill/pet-health-api/models"
)

// ReminderDatabase is a mock type for the ReminderDatabase type
type ReminderDatabase struct {
	mock.Mock
}

// DeleteByMedication provides a mock function with given fields: ctx, medicationID
func (_m *ReminderDatabase) DeleteByMedication(ctx context.Context, medicationID string) (int64, error) {
	ret := _m.Called(ctx, medicationID)
	return ret.Get(0).(int64), ret.Error(1)
}

// DeleteByRelation provides a mock function with given fields: ctx, recordID, recordType
func (_m *ReminderDatabase) DeleteByRelation(ctx context.Context, recordID string, recordType string) (int64, error) {
	ret := _m.Called(ctx, recordID, recordType)
	return ret.Get(0).(int64), ret.Error(1)
}

// DeleteOne provides a mock function with given fields: ctx, id, userID
func (_m *ReminderDatabase) DeleteOne(ctx context.Context, id string, userID string) error {
	ret := _m.Called(ctx, id, userID)
	return ret.Error(0)
}

// FindByID provides a mock function with given fields: ctx, id, userID
func (_m *ReminderDatabase) FindByID(ctx context.Context, id string, userID string) (*models.Reminder, error) {
	ret := _m.Called(ctx, id, userID)

	var r0 *models.Reminder
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Reminder)
	}
	return r0, ret.Error(1)
}

// FindByRelation provides a mock function with given fields: ctx, recordID, recordType
func (_m *ReminderDatabase) FindByRelation(ctx context.Context, recordID string, recordType string) ([]models.Reminder, error) {
	ret := _m.Called(ctx, recordID, recordType)

	var r0 []models.Reminder
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Reminder)
	}
	return r0, ret.Error(1)
}

// FindDue provides a mock function with given fields: ctx, from, to
func (_m *ReminderDatabase) FindDue(ctx context.Context, from time.Time, to time.Time) ([]models.Reminder, error) {
	ret := _m.Called(ctx, from, to)

	var r0 []models.Reminder
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Reminder)
	}
	return r0, ret.Error(1)
}

// InsertMany provides a mock function with given fields: ctx, reminders
func (_m *ReminderDatabase) InsertMany(ctx context.Context, reminders []models.Reminder) error {
	ret := _m.Called(ctx, reminders)
	return ret.Error(0)
}

// InsertOne provides a mock function with given fields: ctx, reminder
func (_m *ReminderDatabase) InsertOne(ctx context.Context, reminder *models.Reminder) error {
	ret := _m.Called(ctx, reminder)
	return ret.Error(0)
}

// List provides a mock function with given fields: ctx, filter, page, limit
func (_m *ReminderDatabase) List(ctx context.Context, filter models.ReminderFilter, page int64, limit int64) (*models.ReminderResponse, error) {
	ret := _m.Called(ctx, filter, page, limit)

	var r0 *models.ReminderResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.ReminderResponse)
	}
	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, reminder
func (_m *ReminderDatabase) Update(ctx context.Context, reminder *models.Reminder) error {
	ret := _m.Called(ctx, reminder)
	return ret.Error(0)
}
