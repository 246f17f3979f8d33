// Package service implements the URL shortening domain logic over the
// storage interface.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/shortie/internal/models"
)

type urlsKeeper interface {
	InsertURL(ctx context.Context, url *models.URL) error

	FindURLsByUser(ctx context.Context, userID string) ([]models.URL, error)

	FindURLByUserAndTarget(ctx context.Context, userID, target string) (*models.URL, bool, error)

	FindURLBySlug(ctx context.Context, slug string) (*models.URL, bool, error)

	Ping(ctx context.Context) error
}

// SlugGenerator produces collision-resistant short public identifiers.
type SlugGenerator func() string

// ErrConflict is returned when the user has already shortened the given URL.
var ErrConflict = errors.New("URL already shortened")

// Service owns the URL records: creation with a generated slug, owner-scoped
// listing and the public slug resolution.
type Service struct {
	db           urlsKeeper
	newSlug      SlugGenerator
	shortURLBase string
}

func New(db urlsKeeper, newSlug SlugGenerator, shortURLBase string) *Service {
	return &Service{
		db:           db,
		newSlug:      newSlug,
		shortURLBase: shortURLBase,
	}
}

// Shorten creates a URL record for the user with a freshly generated slug.
// When the user already has a record for target it returns ErrConflict.
//
// The precheck and the insert are two storage calls with nothing between
// them held transactionally, so two concurrent identical submissions can
// both pass the check and both insert. Sequential submissions behave as
// specified.
func (s *Service) Shorten(ctx context.Context, userID, name, target string) (*models.URL, error) {
	_, found, err := s.db.FindURLByUserAndTarget(ctx, userID, target)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, ErrConflict
	}

	url := &models.URL{
		ID:        uuid.New().String(),
		Slug:      s.newSlug(),
		URL:       target,
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.db.InsertURL(ctx, url); err != nil {
		return nil, err
	}

	return url, nil
}

// UserURLs returns the user's records in insertion order.
func (s *Service) UserURLs(ctx context.Context, userID string) ([]models.URL, error) {
	return s.db.FindURLsByUser(ctx, userID)
}

// Resolve maps a slug to its target URL. Any slug is resolvable regardless
// of who created it; that is the point of a public short link.
func (s *Service) Resolve(ctx context.Context, slug string) (string, bool, error) {
	url, found, err := s.db.FindURLBySlug(ctx, slug)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}

	return url.URL, true, nil
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// ShortURL renders the absolute short link for a slug.
func (s *Service) ShortURL(slug string) string {
	return s.shortURLBase + "/" + slug
}
