package services

import (
	"context"
	"errors"
	"time"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/logging"
	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/permissions"
	"github.com/camden-git/mediashare/repository"
)

type InviteService struct {
	invites repository.InviteCodeRepository
	users   repository.UserRepository
	store   storeCaller
}

func NewInviteService(invites repository.InviteCodeRepository, users repository.UserRepository, storeTimeout time.Duration) *InviteService {
	return &InviteService{invites: invites, users: users, store: newStoreCaller(storeTimeout)}
}

type inviteInput struct {
	MaxUses *int `json:"max_uses" validate:"omitempty,min=1"`
}

// Create issues a new invite code. A nil expiresAt never expires; a nil maxUses is unlimited.
func (s *InviteService) Create(ctx context.Context, requesterID uint, expiresAt *time.Time, maxUses *int) (*models.InviteCode, error) {
	if err := s.authorize(ctx, requesterID, permissions.InviteCreate); err != nil {
		return nil, err
	}
	if err := validateStruct(inviteInput{MaxUses: maxUses}); err != nil {
		return nil, err
	}
	if expiresAt != nil && !expiresAt.After(time.Now()) {
		return nil, apperror.ValidationFailed("expires_at", "expires_at must be in the future")
	}

	invite := &models.InviteCode{
		ExpiresAt:       expiresAt,
		MaxUses:         maxUses,
		IsActive:        true,
		CreatedByUserID: requesterID,
	}
	if err := s.store.call(ctx, "invite_code.create", func(ctx context.Context) error {
		return s.invites.Create(ctx, invite)
	}); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Uint("invite_code_id", invite.ID).Uint("created_by", requesterID).Msg("invite code created")
	return invite, nil
}

func (s *InviteService) List(ctx context.Context, requesterID uint) ([]models.InviteCode, error) {
	if err := s.authorize(ctx, requesterID, permissions.InviteList); err != nil {
		return nil, err
	}
	var out []models.InviteCode
	err := s.store.call(ctx, "invite_code.list", func(ctx context.Context) error {
		var err error
		out, err = s.invites.ListAll(ctx)
		return err
	})
	return out, err
}

// Deactivate stops a code from being redeemed. The row is kept.
func (s *InviteService) Deactivate(ctx context.Context, requesterID, inviteID uint) error {
	if err := s.authorize(ctx, requesterID, permissions.InviteDelete); err != nil {
		return err
	}
	err := s.store.call(ctx, "invite_code.deactivate", func(ctx context.Context) error {
		return s.invites.Deactivate(ctx, inviteID)
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound("invite code", inviteID)
	}
	return err
}

func (s *InviteService) authorize(ctx context.Context, requesterID uint, permission string) error {
	requester, err := loadRequester(ctx, s.store, s.users, requesterID)
	if err != nil {
		return err
	}
	if !permissions.Can(requester, permission) {
		return apperror.Forbidden("requires permission " + permission)
	}
	return nil
}
