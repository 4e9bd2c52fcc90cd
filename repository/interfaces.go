package repository

import (
	"context"

	"github.com/camden-git/mediashare/models"
)

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, accountType models.AccountType) ([]models.User, error)
	CountByAccountType(ctx context.Context, accountType models.AccountType) (int64, error)
	// Delete removes the user, their favorites and their albums with everything attached to them.
	Delete(ctx context.Context, id uint) error
	// CreateWithInvite creates the user and consumes one use of the invite code atomically.
	CreateWithInvite(ctx context.Context, user *models.User, inviteCodeID uint) error
}

// ImageRepository defines the methods for cached photo rows
type ImageRepository interface {
	GetByExternalID(ctx context.Context, apiImageID string) (*models.Image, error)
	// UpsertView creates the row with views=1 or increments views, and returns the stored row.
	UpsertView(ctx context.Context, apiImageID, url string) (*models.Image, error)
}

// AlbumRepository defines the methods for album data operations
type AlbumRepository interface {
	Create(ctx context.Context, album *models.Album) error
	GetByID(ctx context.Context, id uint) (*models.Album, error)
	ListByOwnerUsername(ctx context.Context, username string) ([]models.Album, error)
	Update(ctx context.Context, id uint, title, description string) (*models.Album, error)
	// DeleteCascade removes media links, then comments and favorites on the album,
	// then the album itself, in one transaction.
	DeleteCascade(ctx context.Context, id uint) error
	ListMedia(ctx context.Context, albumID uint) ([]models.AlbumMediaLink, error)
	AddMedia(ctx context.Context, link *models.AlbumMediaLink) error
	DeleteMedia(ctx context.Context, albumID, linkID uint) error
}

// CommentFilter narrows comment list queries. Zero values are ignored.
type CommentFilter struct {
	TargetKind  models.TargetKind
	TargetID    string
	FlaggedOnly bool
	NewestFirst bool
	Limit       uint64
}

// CommentRepository defines the methods for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	List(ctx context.Context, filter CommentFilter) ([]models.Comment, error)
	UpdateBody(ctx context.Context, id uint, body string) (*models.Comment, error)
	SetFlag(ctx context.Context, id uint, flagged bool) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
}

// FavoriteRepository defines the methods for image and album likes
type FavoriteRepository interface {
	GetImageFavorite(ctx context.Context, userID uint, apiImageID string) (*models.Favorite, error)
	// InsertImageFavorite returns a DuplicateFavorite error when the row already exists.
	InsertImageFavorite(ctx context.Context, fav *models.Favorite) error
	DeleteImageFavorite(ctx context.Context, userID uint, apiImageID string) (bool, error)
	ListImageFavorites(ctx context.Context, userID uint) ([]models.Favorite, error)

	GetAlbumFavorite(ctx context.Context, userID, albumID uint) (*models.AlbumFavorite, error)
	InsertAlbumFavorite(ctx context.Context, fav *models.AlbumFavorite) error
	DeleteAlbumFavorite(ctx context.Context, userID, albumID uint) (bool, error)
	ListAlbumFavorites(ctx context.Context, userID uint) ([]models.AlbumFavorite, error)
}

// InviteCodeRepository defines the methods for invite code data operations
type InviteCodeRepository interface {
	Create(ctx context.Context, inviteCode *models.InviteCode) error
	GetByCode(ctx context.Context, code string) (*models.InviteCode, error)
	ListAll(ctx context.Context) ([]models.InviteCode, error)
	Deactivate(ctx context.Context, id uint) error
}
