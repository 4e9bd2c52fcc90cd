package models

import "time"

// Image caches a photo from the external photo API together with its view counter.
// There is at most one row per external id.
type Image struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	APIImageID string    `gorm:"column:api_image_id;uniqueIndex;not null" json:"api_image_id"`
	URL        string    `gorm:"" json:"url,omitempty"`
	Views      int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Image) TableName() string {
	return "images"
}
