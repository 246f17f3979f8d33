// Package mockstorage provides a testify-based mock implementation
// of the storage interface used by the router and service packages.
// It is used for unit testing HTTP handlers by simulating storage behavior.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/shortie/internal/models"
	"github.com/patric-chuzhbe/shortie/internal/user"
)

// StorageMock is a testify mock that implements the storage interface.
//
// Use it in handler tests to simulate database behavior.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks user creation and returns a generated ID.
func (m *StorageMock) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	args := m.Called(ctx, usr)
	return args.String(0), args.Error(1)
}

// FindUserByUsername mocks the username lookup.
func (m *StorageMock) FindUserByUsername(ctx context.Context, username string) (*user.User, bool, error) {
	args := m.Called(ctx, username)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// FindUserByID mocks fetching a user by their ID.
func (m *StorageMock) FindUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// InsertURL mocks inserting a new URL record.
func (m *StorageMock) InsertURL(ctx context.Context, url *models.URL) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// FindURLsByUser mocks fetching a user's URL records.
func (m *StorageMock) FindURLsByUser(ctx context.Context, userID string) ([]models.URL, error) {
	args := m.Called(ctx, userID)
	urls, _ := args.Get(0).([]models.URL)
	return urls, args.Error(1)
}

// FindURLByUserAndTarget mocks the duplicate-submission precheck.
func (m *StorageMock) FindURLByUserAndTarget(ctx context.Context, userID, target string) (*models.URL, bool, error) {
	args := m.Called(ctx, userID, target)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Bool(1), args.Error(2)
}

// FindURLBySlug mocks the public slug lookup.
func (m *StorageMock) FindURLBySlug(ctx context.Context, slug string) (*models.URL, bool, error) {
	args := m.Called(ctx, slug)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Bool(1), args.Error(2)
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage and releasing resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
