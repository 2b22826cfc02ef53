package storage

import (
	"context"
	"errors"

	"github.com/akarvir/url-shortener/models"
)

var (
	// ErrNotFound is returned when no record matches the given code or URL.
	ErrNotFound = errors.New("short link not found")
	// ErrDuplicateCode is returned when an insert violates the short_code
	// uniqueness constraint.
	ErrDuplicateCode = errors.New("short code already exists")
)

// Store is the persistence boundary for short links. The database client is
// injected where it is needed instead of living in a package-level variable,
// so tests can substitute an in-memory implementation.
type Store interface {
	// Create inserts a new record. Fails with ErrDuplicateCode when the
	// short code is already taken.
	Create(ctx context.Context, link *models.ShortLink) error

	// FindByCode returns the record for a short code.
	FindByCode(ctx context.Context, code string) (*models.ShortLink, error)

	// FindByOriginalURL returns the record for an exact original URL match.
	FindByOriginalURL(ctx context.Context, originalURL string) (*models.ShortLink, error)

	// CodeExists reports whether a short code is already in use.
	CodeExists(ctx context.Context, code string) (bool, error)

	// IncrementClickCount atomically increments the click counter for a code.
	IncrementClickCount(ctx context.Context, code string) error

	// Recent returns up to limit records ordered by creation time descending.
	Recent(ctx context.Context, limit int) ([]models.ShortLink, error)

	// Ping verifies the store connection is alive.
	Ping(ctx context.Context) error
}
