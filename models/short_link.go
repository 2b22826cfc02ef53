package models

import (
	"time"
)

// ShortLink maps an original URL to its short code. click_count is only
// ever incremented, and always through the store's atomic update.
type ShortLink struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OriginalURL string    `json:"original_url" gorm:"not null;index"`
	ShortCode   string    `json:"short_code" gorm:"unique;not null"`
	CreatedAt   time.Time `json:"created_at"`
	ClickCount  int       `json:"click_count" gorm:"default:0"`
}

func (ShortLink) TableName() string {
	return "urls"
}
