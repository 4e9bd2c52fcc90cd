package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

func (r *GormFavoriteRepository) GetImageFavorite(ctx context.Context, userID uint, apiImageID string) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.db.WithContext(ctx).Where("user_id = ? AND api_image_id = ?", userID, apiImageID).First(&fav).Error
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// InsertImageFavorite relies on the (user_id, api_image_id) unique index. A row that
// already exists is reported as DuplicateFavorite rather than a raw constraint error.
func (r *GormFavoriteRepository) InsertImageFavorite(ctx context.Context, fav *models.Favorite) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fav)
	if result.Error != nil {
		return fmt.Errorf("failed to insert favorite for user %d: %w", fav.UserID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.DuplicateFavorite(fav.UserID, fav.APIImageID)
	}
	return nil
}

func (r *GormFavoriteRepository) DeleteImageFavorite(ctx context.Context, userID uint, apiImageID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND api_image_id = ?", userID, apiImageID).Delete(&models.Favorite{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete favorite for user %d: %w", userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormFavoriteRepository) ListImageFavorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	favs := []models.Favorite{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %d: %w", userID, err)
	}
	return favs, nil
}

func (r *GormFavoriteRepository) GetAlbumFavorite(ctx context.Context, userID, albumID uint) (*models.AlbumFavorite, error) {
	var fav models.AlbumFavorite
	err := r.db.WithContext(ctx).Where("user_id = ? AND album_id = ?", userID, albumID).First(&fav).Error
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *GormFavoriteRepository) InsertAlbumFavorite(ctx context.Context, fav *models.AlbumFavorite) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fav)
	if result.Error != nil {
		return fmt.Errorf("failed to insert album favorite for user %d: %w", fav.UserID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.DuplicateFavorite(fav.UserID, "album "+strconv.FormatUint(uint64(fav.AlbumID), 10))
	}
	return nil
}

func (r *GormFavoriteRepository) DeleteAlbumFavorite(ctx context.Context, userID, albumID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND album_id = ?", userID, albumID).Delete(&models.AlbumFavorite{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete album favorite for user %d: %w", userID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormFavoriteRepository) ListAlbumFavorites(ctx context.Context, userID uint) ([]models.AlbumFavorite, error) {
	favs := []models.AlbumFavorite{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("failed to list album favorites for user %d: %w", userID, err)
	}
	return favs, nil
}
