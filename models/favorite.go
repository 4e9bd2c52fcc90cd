package models

import "time"

// Favorite is an image like. The unique index is what keeps concurrent likes
// from producing two rows.
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_favorite_user_image,priority:1" json:"user_id"`
	APIImageID string    `gorm:"column:api_image_id;not null;uniqueIndex:idx_favorite_user_image,priority:2" json:"api_image_id"`
	ImageURL   string    `gorm:"" json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// AlbumFavorite is an album like, unique per (user, album).
type AlbumFavorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_album_favorite_user_album,priority:1" json:"user_id"`
	AlbumID   uint      `gorm:"not null;uniqueIndex:idx_album_favorite_user_album,priority:2;index" json:"album_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (AlbumFavorite) TableName() string {
	return "album_favorites"
}

// LikeState is the persisted like relation between a user and a target.
type LikeState struct {
	TargetKind TargetKind `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	Liked      bool       `json:"liked"`
}
