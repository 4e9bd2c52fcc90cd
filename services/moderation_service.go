package services

import (
	"context"

	"github.com/camden-git/mediashare/models"
)

// ModerationService is the moderator's view over flagged comments. Authorization
// and persistence are shared with CommentService so there is one CanModerate gate.
type ModerationService struct {
	comments *CommentService
}

func NewModerationService(comments *CommentService) *ModerationService {
	return &ModerationService{comments: comments}
}

// ListFlagged returns all flagged comments across targets, newest first.
func (s *ModerationService) ListFlagged(ctx context.Context, requesterID uint) ([]models.Comment, error) {
	return s.comments.ListFlagged(ctx, requesterID)
}

// ResolveFlag clears the flag and keeps the comment.
func (s *ModerationService) ResolveFlag(ctx context.Context, commentID, requesterID uint) (*models.Comment, error) {
	return s.comments.UnflagComment(ctx, commentID, requesterID)
}

// PurgeComment removes a comment regardless of its author.
func (s *ModerationService) PurgeComment(ctx context.Context, commentID, requesterID uint) error {
	return s.comments.AdminDeleteComment(ctx, commentID, requesterID)
}
