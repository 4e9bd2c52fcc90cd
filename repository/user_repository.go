package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/mediashare/models"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.AccountType == "" {
		user.AccountType = models.AccountTypeUser
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	return nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by username; an empty accountType returns everyone.
func (r *GormUserRepository) List(ctx context.Context, accountType models.AccountType) ([]models.User, error) {
	users := []models.User{}
	q := r.db.WithContext(ctx).Order("username ASC")
	if accountType != "" {
		q = q.Where("account_type = ?", accountType)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *GormUserRepository) CountByAccountType(ctx context.Context, accountType models.AccountType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("account_type = ?", accountType).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s users: %w", accountType, err)
	}
	return count, nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var albumIDs []uint
		if err := tx.Model(&models.Album{}).Where("owner_id = ?", id).Pluck("id", &albumIDs).Error; err != nil {
			return fmt.Errorf("failed to list albums of user %d: %w", id, err)
		}
		for _, albumID := range albumIDs {
			if err := deleteAlbumTx(tx, albumID); err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.AlbumFavorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete album favorites of user %d: %w", id, err)
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormUserRepository) CreateWithInvite(ctx context.Context, user *models.User, inviteCodeID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the guarded update doubles as the validity check so two registrations cannot exceed max uses
		result := tx.Model(&models.InviteCode{}).
			Where("id = ? AND is_active = ? AND (max_uses IS NULL OR uses < max_uses)", inviteCodeID, true).
			UpdateColumn("uses", gorm.Expr("uses + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to consume invite code %d: %w", inviteCodeID, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if user.AccountType == "" {
			user.AccountType = models.AccountTypeUser
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.Username, err)
		}
		return nil
	})
}
