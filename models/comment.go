package models

import "time"

// TargetKind names the entity a comment or favorite points at.
type TargetKind string

const (
	TargetImage TargetKind = "image" // TargetID is the external photo API id
	TargetAlbum TargetKind = "album" // TargetID is the decimal album id
)

func (k TargetKind) IsValid() bool {
	return k == TargetImage || k == TargetAlbum
}

// Comment references its target by (TargetKind, TargetID). AuthorID is immutable;
// Username and Email are snapshots taken when the comment was written.
type Comment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AuthorID   uint       `gorm:"not null;index" json:"author_id"`
	TargetKind TargetKind `gorm:"not null;index:idx_comment_target,priority:1" json:"target_kind"`
	TargetID   string     `gorm:"not null;index:idx_comment_target,priority:2" json:"target_id"`
	Body       string     `gorm:"not null" json:"body"`
	Username   string     `gorm:"not null" json:"username"`
	Email      string     `gorm:"" json:"-"`
	Flagged    bool       `gorm:"not null;default:false;index" json:"flagged"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
