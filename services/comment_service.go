package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/logging"
	"github.com/camden-git/mediashare/metrics"
	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/permissions"
	"github.com/camden-git/mediashare/repository"
)

const defaultCommentPageSize = 50

// CommentService implements the comment workflow. Every operation takes the acting
// user's id explicitly and returns the entity as stored after the change.
type CommentService struct {
	comments repository.CommentRepository
	users    repository.UserRepository
	albums   repository.AlbumRepository
	images   repository.ImageRepository
	store    storeCaller
	pageSize uint64
}

func NewCommentService(
	comments repository.CommentRepository,
	users repository.UserRepository,
	albums repository.AlbumRepository,
	images repository.ImageRepository,
	storeTimeout time.Duration,
	pageSize int,
) *CommentService {
	if pageSize <= 0 {
		pageSize = defaultCommentPageSize
	}
	return &CommentService{
		comments: comments,
		users:    users,
		albums:   albums,
		images:   images,
		store:    newStoreCaller(storeTimeout),
		pageSize: uint64(pageSize),
	}
}

type commentInput struct {
	TargetKind string `json:"target_kind" validate:"required,oneof=image album"`
	TargetID   string `json:"target_id" validate:"required,max=64"`
	Body       string `json:"body" validate:"required,max=2000"`
}

type commentBody struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// ListComments returns up to one page of comments on a target, oldest first.
func (s *CommentService) ListComments(ctx context.Context, targetKind models.TargetKind, targetID string) ([]models.Comment, error) {
	if !targetKind.IsValid() {
		return nil, apperror.ValidationFailed("target_kind", "target_kind must be one of: image album")
	}
	targetID, err := canonicalTarget(targetKind, strings.TrimSpace(targetID))
	if err != nil {
		return nil, err
	}
	var out []models.Comment
	err = s.store.call(ctx, "comment.list", func(ctx context.Context) error {
		var err error
		out, err = s.comments.List(ctx, repository.CommentFilter{
			TargetKind: targetKind,
			TargetID:   targetID,
			Limit:      s.pageSize,
		})
		return err
	})
	return out, err
}

// AddComment stores a new unflagged comment with a snapshot of the author's username.
func (s *CommentService) AddComment(ctx context.Context, requesterID uint, targetKind models.TargetKind, targetID, body string) (*models.Comment, error) {
	author, err := loadRequester(ctx, s.store, s.users, requesterID)
	if err != nil {
		return nil, err
	}

	in := commentInput{TargetKind: string(targetKind), TargetID: strings.TrimSpace(targetID), Body: strings.TrimSpace(body)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.TargetID, err = s.ensureTarget(ctx, targetKind, in.TargetID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID:   author.ID,
		TargetKind: targetKind,
		TargetID:   in.TargetID,
		Body:       in.Body,
		Username:   author.Username,
		Email:      author.Email,
		Flagged:    false,
	}
	if err := s.store.call(ctx, "comment.create", func(ctx context.Context) error {
		return s.comments.Create(ctx, comment)
	}); err != nil {
		return nil, err
	}

	metrics.CommentActions.WithLabelValues("add").Inc()
	logging.Ctx(ctx).Debug().Uint("comment_id", comment.ID).Str("target_kind", string(targetKind)).Str("target_id", in.TargetID).Msg("comment added")
	return comment, nil
}

// ensureTarget checks the target exists and returns its canonical id.
func (s *CommentService) ensureTarget(ctx context.Context, kind models.TargetKind, targetID string) (string, error) {
	switch kind {
	case models.TargetAlbum:
		albumID, err := parseAlbumID(targetID)
		if err != nil {
			return "", err
		}
		err = s.store.call(ctx, "album.get", func(ctx context.Context) error {
			_, err := s.albums.GetByID(ctx, albumID)
			return err
		})
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.NotFound("album", targetID)
		}
		return albumTargetID(albumID), err
	case models.TargetImage:
		err := s.store.call(ctx, "image.get", func(ctx context.Context) error {
			_, err := s.images.GetByExternalID(ctx, targetID)
			return err
		})
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.NotFound("image", targetID)
		}
		return targetID, err
	default:
		return "", apperror.ValidationFailed("target_kind", "target_kind must be one of: image album")
	}
}

// EditComment replaces the body of a comment the requester wrote.
func (s *CommentService) EditComment(ctx context.Context, commentID, requesterID uint, newBody string) (*models.Comment, error) {
	if _, err := loadRequester(ctx, s.store, s.users, requesterID); err != nil {
		return nil, err
	}
	in := commentBody{Body: strings.TrimSpace(newBody)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	comment, err := s.get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != requesterID {
		return nil, apperror.Forbidden("only the author may edit this comment")
	}

	var updated *models.Comment
	err = s.store.call(ctx, "comment.update_body", func(ctx context.Context) error {
		var err error
		updated, err = s.comments.UpdateBody(ctx, commentID, in.Body)
		return err
	})
	if err != nil {
		return nil, s.notFound(err, commentID)
	}
	metrics.CommentActions.WithLabelValues("edit").Inc()
	return updated, nil
}

// DeleteComment removes a comment the requester wrote. Moderators use AdminDeleteComment.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterID uint) error {
	if _, err := loadRequester(ctx, s.store, s.users, requesterID); err != nil {
		return err
	}
	comment, err := s.get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != requesterID {
		return apperror.Forbidden("only the author may delete this comment")
	}
	if err := s.delete(ctx, commentID); err != nil {
		return err
	}
	metrics.CommentActions.WithLabelValues("delete").Inc()
	return nil
}

// AdminDeleteComment deletes any comment; the requester must pass CanModerate.
func (s *CommentService) AdminDeleteComment(ctx context.Context, commentID, requesterID uint) error {
	requester, err := loadRequester(ctx, s.store, s.users, requesterID)
	if err != nil {
		return err
	}
	if !permissions.CanModerate(requester) {
		return apperror.Forbidden("moderator rights required")
	}
	if err := s.delete(ctx, commentID); err != nil {
		return err
	}
	metrics.CommentActions.WithLabelValues("admin_delete").Inc()
	logging.Ctx(ctx).Info().Uint("comment_id", commentID).Uint("moderator_id", requesterID).Msg("comment purged")
	return nil
}

// FlagComment marks a comment for moderation. Flagging an already flagged comment succeeds.
func (s *CommentService) FlagComment(ctx context.Context, commentID, requesterID uint) (*models.Comment, error) {
	if _, err := loadRequester(ctx, s.store, s.users, requesterID); err != nil {
		return nil, err
	}
	comment, err := s.get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.Flagged {
		return comment, nil
	}
	updated, err := s.setFlag(ctx, commentID, true)
	if err != nil {
		return nil, err
	}
	metrics.CommentActions.WithLabelValues("flag").Inc()
	return updated, nil
}

// UnflagComment clears the flag; the requester must pass CanModerate.
func (s *CommentService) UnflagComment(ctx context.Context, commentID, requesterID uint) (*models.Comment, error) {
	requester, err := loadRequester(ctx, s.store, s.users, requesterID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModerate(requester) {
		return nil, apperror.Forbidden("moderator rights required")
	}
	updated, err := s.setFlag(ctx, commentID, false)
	if err != nil {
		return nil, err
	}
	metrics.CommentActions.WithLabelValues("unflag").Inc()
	return updated, nil
}

// ListFlagged returns every flagged comment, newest first.
func (s *CommentService) ListFlagged(ctx context.Context, requesterID uint) ([]models.Comment, error) {
	requester, err := loadRequester(ctx, s.store, s.users, requesterID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModerate(requester) {
		return nil, apperror.Forbidden("moderator rights required")
	}
	var out []models.Comment
	err = s.store.call(ctx, "comment.list_flagged", func(ctx context.Context) error {
		var err error
		out, err = s.comments.List(ctx, repository.CommentFilter{FlaggedOnly: true, NewestFirst: true})
		return err
	})
	return out, err
}

func (s *CommentService) get(ctx context.Context, commentID uint) (*models.Comment, error) {
	var comment *models.Comment
	err := s.store.call(ctx, "comment.get", func(ctx context.Context) error {
		var err error
		comment, err = s.comments.GetByID(ctx, commentID)
		return err
	})
	if err != nil {
		return nil, s.notFound(err, commentID)
	}
	return comment, nil
}

func (s *CommentService) setFlag(ctx context.Context, commentID uint, flagged bool) (*models.Comment, error) {
	var updated *models.Comment
	err := s.store.call(ctx, "comment.set_flag", func(ctx context.Context) error {
		var err error
		updated, err = s.comments.SetFlag(ctx, commentID, flagged)
		return err
	})
	if err != nil {
		return nil, s.notFound(err, commentID)
	}
	return updated, nil
}

func (s *CommentService) delete(ctx context.Context, commentID uint) error {
	err := s.store.call(ctx, "comment.delete", func(ctx context.Context) error {
		return s.comments.Delete(ctx, commentID)
	})
	return s.notFound(err, commentID)
}

func (s *CommentService) notFound(err error, commentID uint) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound("comment", commentID)
	}
	return err
}
