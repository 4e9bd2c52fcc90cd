package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/camden-git/mediashare/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormImageRepository struct {
	db *gorm.DB
}

func NewGormImageRepository(db *gorm.DB) ImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) GetByExternalID(ctx context.Context, apiImageID string) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).Where("api_image_id = ?", apiImageID).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// UpsertView is a single INSERT ... ON CONFLICT DO UPDATE so concurrent first views
// cannot create two rows or lose an increment.
func (r *GormImageRepository) UpsertView(ctx context.Context, apiImageID, url string) (*models.Image, error) {
	now := time.Now()
	image := models.Image{APIImageID: apiImageID, URL: url, Views: 1, CreatedAt: now, UpdatedAt: now}

	updates := map[string]interface{}{
		"views":      gorm.Expr("views + 1"),
		"updated_at": now,
	}
	if url != "" {
		updates["url"] = url
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "api_image_id"}},
		DoUpdates: clause.Assignments(updates),
	}).Create(&image).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert view for image %s: %w", apiImageID, err)
	}
	return r.GetByExternalID(ctx, apiImageID)
}
