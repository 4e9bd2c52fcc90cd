package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/camden-git/mediashare/models"
	"gorm.io/gorm"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var commentColumns = []string{
	"id", "author_id", "target_kind", "target_id", "body", "username", "email", "flagged", "created_at", "updated_at",
}

type GormCommentRepository struct {
	db *gorm.DB
}

func NewGormCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment on %s %s: %w", comment.TargetKind, comment.TargetID, err)
	}
	return nil
}

func (r *GormCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// buildListQuery turns a CommentFilter into SQL. Ties on created_at are broken by id.
func buildListQuery(filter CommentFilter) (string, []interface{}, error) {
	q := psql.Select(commentColumns...).From("comments")

	if filter.TargetKind != "" {
		q = q.Where(sq.Eq{"target_kind": filter.TargetKind})
	}
	if filter.TargetID != "" {
		q = q.Where(sq.Eq{"target_id": filter.TargetID})
	}
	if filter.FlaggedOnly {
		q = q.Where(sq.Eq{"flagged": true})
	}
	if filter.NewestFirst {
		q = q.OrderBy("created_at DESC", "id DESC")
	} else {
		q = q.OrderBy("created_at ASC", "id ASC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q.ToSql()
}

func (r *GormCommentRepository) List(ctx context.Context, filter CommentFilter) ([]models.Comment, error) {
	sqlStr, args, err := buildListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for comment list: %w", err)
	}

	comments := []models.Comment{}
	if err := r.db.WithContext(ctx).Raw(sqlStr, args...).Scan(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to execute comment list query: %w", err)
	}
	return comments, nil
}

func (r *GormCommentRepository) UpdateBody(ctx context.Context, id uint, body string) (*models.Comment, error) {
	return r.update(ctx, id, map[string]interface{}{"body": body})
}

func (r *GormCommentRepository) SetFlag(ctx context.Context, id uint, flagged bool) (*models.Comment, error) {
	return r.update(ctx, id, map[string]interface{}{"flagged": flagged})
}

func (r *GormCommentRepository) update(ctx context.Context, id uint, updates map[string]interface{}) (*models.Comment, error) {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update comment ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *GormCommentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
