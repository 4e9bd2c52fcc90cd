package repository

import (
	"context"

	"github.com/camden-git/mediashare/models"
	"gorm.io/gorm"
)

type GormInviteCodeRepository struct {
	db *gorm.DB
}

func NewGormInviteCodeRepository(db *gorm.DB) InviteCodeRepository {
	return &GormInviteCodeRepository{db: db}
}

func (r *GormInviteCodeRepository) Create(ctx context.Context, inviteCode *models.InviteCode) error {
	return r.db.WithContext(ctx).Create(inviteCode).Error
}

func (r *GormInviteCodeRepository) GetByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	var inviteCode models.InviteCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&inviteCode).Error; err != nil {
		return nil, err
	}
	return &inviteCode, nil
}

func (r *GormInviteCodeRepository) ListAll(ctx context.Context) ([]models.InviteCode, error) {
	inviteCodes := []models.InviteCode{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&inviteCodes).Error
	return inviteCodes, err
}

// Deactivate keeps the row for auditing; a deactivated code can no longer be redeemed.
func (r *GormInviteCodeRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.InviteCode{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
