package services

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/akarvir/url-shortener/models"
	"github.com/akarvir/url-shortener/storage"
)

const (
	charset            = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength         = 6
	fallbackCodeLength = 8
	maxCodeAttempts    = 10

	defaultRecentLimit = 10
)

// ErrInvalidURL is returned when the submitted URL fails syntax validation.
var ErrInvalidURL = errors.New("invalid URL format")

// Shortener orchestrates code allocation, dedup and lookups over the store.
type Shortener struct {
	store    storage.Store
	validate *validator.Validate
}

func NewShortener(store storage.Store) *Shortener {
	return &Shortener{
		store:    store,
		validate: validator.New(),
	}
}

// ShortenResult is the response body for a shorten request.
type ShortenResult struct {
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
	ShortCode   string `json:"short_code"`
}

// Shorten validates the URL and returns its short link, reusing the existing
// code when the exact same URL was shortened before. baseURL is a deployment
// input and is only used to assemble the returned short_url.
func (s *Shortener) Shorten(ctx context.Context, originalURL, baseURL string) (*ShortenResult, error) {
	if err := s.validate.Var(originalURL, "required,url"); err != nil {
		return nil, ErrInvalidURL
	}

	existing, err := s.store.FindByOriginalURL(ctx, originalURL)
	if err == nil {
		return &ShortenResult{
			OriginalURL: originalURL,
			ShortURL:    baseURL + "/" + existing.ShortCode,
			ShortCode:   existing.ShortCode,
		}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	code, err := s.allocateShortCode(ctx)
	if err != nil {
		return nil, err
	}

	link := &models.ShortLink{
		OriginalURL: originalURL,
		ShortCode:   code,
		ClickCount:  0,
	}
	if err := s.store.Create(ctx, link); err != nil {
		return nil, err
	}

	return &ShortenResult{
		OriginalURL: originalURL,
		ShortURL:    baseURL + "/" + code,
		ShortCode:   code,
	}, nil
}

// Resolve looks up a short code, counts the click and returns the record.
func (s *Shortener) Resolve(ctx context.Context, code string) (*models.ShortLink, error) {
	link, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.store.IncrementClickCount(ctx, code); err != nil {
		return nil, err
	}
	return link, nil
}

// RecordClick counts a redirect served from the cache, keeping the store as
// the authoritative counter.
func (s *Shortener) RecordClick(ctx context.Context, code string) error {
	return s.store.IncrementClickCount(ctx, code)
}

// Stats returns the record for a code without touching its counters.
func (s *Shortener) Stats(ctx context.Context, code string) (*models.ShortLink, error) {
	return s.store.FindByCode(ctx, code)
}

// Recent returns the most recently created links, newest first.
func (s *Shortener) Recent(ctx context.Context, limit int) ([]models.ShortLink, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.store.Recent(ctx, limit)
}

// Health reports whether the store connection is alive.
func (s *Shortener) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// allocateShortCode picks a code not currently present in the store, on a
// best-effort basis: up to maxCodeAttempts 6-character candidates are checked
// for existence, and a failed check is skipped rather than propagated. When
// the attempt budget runs out, a longer code is returned without re-checking;
// the store's uniqueness constraint remains the source of truth either way.
func (s *Shortener) allocateShortCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := generateShortCode(codeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.store.CodeExists(ctx, code)
		if err != nil {
			log.Printf("Error checking short code: %v", err)
			continue
		}
		if !exists {
			return code, nil
		}
	}
	return generateShortCode(fallbackCodeLength)
}
