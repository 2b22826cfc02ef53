package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/akarvir/url-shortener/models"
)

// GormStore implements Store on top of a GORM Postgres connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, link *models.ShortLink) error {
	result := s.db.WithContext(ctx).Create(link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		return result.Error
	}
	return nil
}

func (s *GormStore) FindByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	var link models.ShortLink
	result := s.db.WithContext(ctx).Where("short_code = ?", code).First(&link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &link, nil
}

func (s *GormStore) FindByOriginalURL(ctx context.Context, originalURL string) (*models.ShortLink, error) {
	var link models.ShortLink
	result := s.db.WithContext(ctx).Where("original_url = ?", originalURL).First(&link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &link, nil
}

func (s *GormStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&models.ShortLink{}).Where("short_code = ?", code).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// IncrementClickCount pushes the increment into a single UPDATE so concurrent
// redirects of the same code cannot lose updates.
func (s *GormStore) IncrementClickCount(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Model(&models.ShortLink{}).
		Where("short_code = ?", code).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Recent(ctx context.Context, limit int) ([]models.ShortLink, error) {
	var links []models.ShortLink
	result := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}
	return links, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
