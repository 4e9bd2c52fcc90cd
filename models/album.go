package models

// MediaKind distinguishes the two kinds of album members.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

func (k MediaKind) IsValid() bool {
	return k == MediaKindImage || k == MediaKindVideo
}

// Album is a user-owned collection of media links. OwnerID never changes after creation.
type Album struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID       uint   `gorm:"not null;index" json:"owner_id"`
	OwnerUsername string `gorm:"not null;index" json:"owner_username"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `gorm:"" json:"description"`
	CreatedAt     int64  `gorm:"not null;autoCreateTime" json:"created_at"` // Unix timestamp
	UpdatedAt     int64  `gorm:"not null;autoUpdateTime" json:"updated_at"` // Unix timestamp

	Media []AlbumMediaLink `gorm:"foreignKey:AlbumID" json:"media,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Album) TableName() string {
	return "albums"
}

// AlbumMediaLink attaches one image or video to exactly one album.
type AlbumMediaLink struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AlbumID   uint      `gorm:"not null;index" json:"album_id"`
	MediaID   string    `gorm:"not null" json:"media_id"`
	URL       string    `gorm:"not null" json:"url"`
	Kind      MediaKind `gorm:"not null;default:image" json:"kind"`
	CreatedAt int64     `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (AlbumMediaLink) TableName() string {
	return "album_media_links"
}
