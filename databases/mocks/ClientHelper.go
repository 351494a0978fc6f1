package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	databases "github.com/linesmerrill/pet-health-api/databases"
)

// ClientHelper is a mock type for the ClientHelper type
type ClientHelper struct {
	mock.Mock
}

// Connect provides a mock function with given fields: _a0
func (_m *ClientHelper) Connect(_a0 context.Context) error {
	ret := _m.Called(_a0)
	return ret.Error(0)
}

// Database provides a mock function with given fields: _a0
func (_m *ClientHelper) Database(_a0 string) databases.DatabaseHelper {
	ret := _m.Called(_a0)

	var r0 databases.DatabaseHelper
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(databases.DatabaseHelper)
	}
	return r0
}

// Disconnect provides a mock function with given fields: _a0
func (_m *ClientHelper) Disconnect(_a0 context.Context) error {
	ret := _m.Called(_a0)
	return ret.Error(0)
}

// UseTransaction provides a mock function with given fields: ctx, fn.
// A nil error return runs fn with ctx, like a committed transaction would.
func (_m *ClientHelper) UseTransaction(ctx context.Context, fn func(context.Context) error) error {
	ret := _m.Called(ctx, fn)
	if err := ret.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
