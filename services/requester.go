package services

import (
	"context"
	"errors"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/repository"
)

// loadRequester resolves the acting user. A zero id or an id whose account no longer
// exists is treated as having no session.
func loadRequester(ctx context.Context, store storeCaller, users repository.UserRepository, requesterID uint) (*models.User, error) {
	if requesterID == 0 {
		return nil, apperror.NotAuthenticated()
	}
	var user *models.User
	err := store.call(ctx, "user.get", func(ctx context.Context) error {
		var err error
		user, err = users.GetByID(ctx, requesterID)
		return err
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotAuthenticated()
		}
		return nil, err
	}
	return user, nil
}
