// Package storage declares the repository interface the handlers and
// services are written against. Implementations only need equality lookups;
// there is no query logic beyond that.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/shortie/internal/models"
	"github.com/patric-chuzhbe/shortie/internal/user"
)

// Storage is the full persistence surface of the service: user accounts and
// owner-scoped URL records. Finds report absence via the boolean, not an
// error.
type Storage interface {
	// CreateUser persists usr, assigns it a unique ID and returns that ID.
	CreateUser(ctx context.Context, usr *user.User) (string, error)

	FindUserByUsername(ctx context.Context, username string) (*user.User, bool, error)

	FindUserByID(ctx context.Context, userID string) (*user.User, bool, error)

	// InsertURL persists a fully populated URL record (ID, slug and
	// timestamps are set by the caller).
	InsertURL(ctx context.Context, url *models.URL) error

	// FindURLsByUser returns the user's records in insertion order.
	FindURLsByUser(ctx context.Context, userID string) ([]models.URL, error)

	// FindURLByUserAndTarget is the duplicate-submission precheck.
	FindURLByUserAndTarget(ctx context.Context, userID, target string) (*models.URL, bool, error)

	// FindURLBySlug is the public redirect lookup; deliberately not scoped
	// by owner.
	FindURLBySlug(ctx context.Context, slug string) (*models.URL, bool, error)

	Ping(ctx context.Context) error

	Close() error
}
