package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/models"
	"github.com/facette/natsort"
	"gorm.io/gorm"
)

// GormAlbumRepository handles database operations for Album entities
type GormAlbumRepository struct {
	db *gorm.DB
}

// NewGormAlbumRepository creates a new instance of GormAlbumRepository
func NewGormAlbumRepository(db *gorm.DB) AlbumRepository {
	return &GormAlbumRepository{db: db}
}

func (r *GormAlbumRepository) Create(ctx context.Context, album *models.Album) error {
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return fmt.Errorf("failed to create album %s: %w", album.Title, err)
	}
	return nil
}

// GetByID retrieves an album by its ID with its media preloaded
func (r *GormAlbumRepository) GetByID(ctx context.Context, id uint) (*models.Album, error) {
	var album models.Album
	err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&album, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

// ListByOwnerUsername returns an owner's albums with media, naturally ordered by title
// so that "Trip 2" sorts before "Trip 10".
func (r *GormAlbumRepository) ListByOwnerUsername(ctx context.Context, username string) ([]models.Album, error) {
	albums := []models.Album{}
	err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("owner_username = ?", username).
		Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums for %s: %w", username, err)
	}

	byTitle := make(map[string][]models.Album, len(albums))
	titles := make([]string, 0, len(albums))
	for _, a := range albums {
		if _, seen := byTitle[a.Title]; !seen {
			titles = append(titles, a.Title)
		}
		byTitle[a.Title] = append(byTitle[a.Title], a)
	}
	natsort.Sort(titles)

	sorted := make([]models.Album, 0, len(albums))
	for _, t := range titles {
		sorted = append(sorted, byTitle[t]...)
	}
	return sorted, nil
}

// Update sets title and description and returns the stored album
func (r *GormAlbumRepository) Update(ctx context.Context, id uint, title, description string) (*models.Album, error) {
	result := r.db.WithContext(ctx).Model(&models.Album{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"description": description,
		"updated_at":  time.Now().Unix(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update album ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *GormAlbumRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteAlbumTx(tx, id)
	})
}

// deleteAlbumTx removes an album and everything that hangs off it. Any failing step
// returns a CascadeFailure so the surrounding transaction rolls back with the album intact.
func deleteAlbumTx(tx *gorm.DB, id uint) error {
	if err := tx.Where("album_id = ?", id).Delete(&models.AlbumMediaLink{}).Error; err != nil {
		return apperror.CascadeFailure("media links", err)
	}
	target := strconv.FormatUint(uint64(id), 10)
	if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetAlbum, target).Delete(&models.Comment{}).Error; err != nil {
		return apperror.CascadeFailure("comments", err)
	}
	if err := tx.Where("album_id = ?", id).Delete(&models.AlbumFavorite{}).Error; err != nil {
		return apperror.CascadeFailure("album favorites", err)
	}
	result := tx.Delete(&models.Album{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete album ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormAlbumRepository) ListMedia(ctx context.Context, albumID uint) ([]models.AlbumMediaLink, error) {
	links := []models.AlbumMediaLink{}
	if err := r.db.WithContext(ctx).Where("album_id = ?", albumID).Order("id ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list media for album %d: %w", albumID, err)
	}
	return links, nil
}

func (r *GormAlbumRepository) AddMedia(ctx context.Context, link *models.AlbumMediaLink) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return fmt.Errorf("failed to add media %s to album %d: %w", link.MediaID, link.AlbumID, err)
	}
	return nil
}

// DeleteMedia removes one link; the album id guard keeps owners from deleting other albums' links.
func (r *GormAlbumRepository) DeleteMedia(ctx context.Context, albumID, linkID uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND album_id = ?", linkID, albumID).Delete(&models.AlbumMediaLink{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete media link %d: %w", linkID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
