package mocks

import (
	context "context"
	time "time"

	mock "github.com/stretchr/testify/mock"
)

// SchedulerLockDatabase is a mock type for the SchedulerLockDatabase type
type SchedulerLockDatabase struct {
	mock.Mock
}

// ReleaseLock provides a mock function with given fields: ctx, name, instanceID
func (_m *SchedulerLockDatabase) ReleaseLock(ctx context.Context, name string, instanceID string) error {
	ret := _m.Called(ctx, name, instanceID)
	return ret.Error(0)
}

// TryAcquireLock provides a mock function with given fields: ctx, name, instanceID, ttl
func (_m *SchedulerLockDatabase) TryAcquireLock(ctx context.Context, name string, instanceID string, ttl time.Duration) (bool, error) {
	ret := _m.Called(ctx, name, instanceID, ttl)
	return ret.Bool(0), ret.Error(1)
}
