package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/akarvir/url-shortener/models"
)

// MemoryStore is an in-memory Store used in tests and local experiments.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	byCode map[string]*models.ShortLink
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byCode: make(map[string]*models.ShortLink)}
}

func (s *MemoryStore) Create(_ context.Context, link *models.ShortLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byCode[link.ShortCode]; ok {
		return ErrDuplicateCode
	}
	s.nextID++
	link.ID = s.nextID
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	stored := *link
	s.byCode[link.ShortCode] = &stored
	return nil
}

func (s *MemoryStore) FindByCode(_ context.Context, code string) (*models.ShortLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	found := *link
	return &found, nil
}

func (s *MemoryStore) FindByOriginalURL(_ context.Context, originalURL string) (*models.ShortLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, link := range s.byCode {
		if link.OriginalURL == originalURL {
			found := *link
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byCode[code]
	return ok, nil
}

func (s *MemoryStore) IncrementClickCount(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.byCode[code]
	if !ok {
		return ErrNotFound
	}
	link.ClickCount++
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]models.ShortLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]models.ShortLink, 0, len(s.byCode))
	for _, link := range s.byCode {
		links = append(links, *link)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].ID > links[j].ID
		}
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
