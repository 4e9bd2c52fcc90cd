package services

import (
	"context"
	"testing"
	"time"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)

	session, err := f.accounts.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	id, err := f.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id)

	_, err = f.accounts.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
	_, err = f.accounts.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
}

func TestRegisterWithInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", models.AccountTypeAdmin)

	one := 1
	invite, err := f.inviteSvc.Create(ctx, admin.ID, nil, &one)
	require.NoError(t, err)
	require.NotEmpty(t, invite.Code)

	session, err := f.accounts.Register(ctx, "newbie", "newbie@example.com", "password123", invite.Code)
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeUser, session.User.AccountType)

	_, err = f.accounts.Register(ctx, "second", "", "password123", invite.Code)
	assert.ErrorIs(t, err, apperror.ErrForbidden, "max uses reached")

	_, err = f.accounts.Register(ctx, "third", "", "password123", "not-a-code")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestRegisterDuplicateUsernameKeepsInviteUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", models.AccountTypeAdmin)
	f.user(t, "taken", models.AccountTypeUser)

	invite, err := f.inviteSvc.Create(ctx, admin.ID, nil, nil)
	require.NoError(t, err)

	_, err = f.accounts.Register(ctx, "taken", "", "password123", invite.Code)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "username", appErr.Field)

	stored, err := f.invites.GetByCode(ctx, invite.Code)
	require.NoError(t, err)
	assert.Zero(t, stored.Uses, "failed registration must not consume the code")
}

func TestRegisterExpiredInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", models.AccountTypeAdmin)

	soon := time.Now().Add(time.Hour)
	invite, err := f.inviteSvc.Create(ctx, admin.ID, &soon, nil)
	require.NoError(t, err)

	f.accounts.now = func() time.Time { return soon.Add(time.Minute) }
	_, err = f.accounts.Register(ctx, "late", "", "password123", invite.Code)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.Register(context.Background(), "ab", "", "password123", "code")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = f.accounts.Register(context.Background(), "valid", "not-an-email", "password123", "code")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = f.accounts.Register(context.Background(), "valid", "", "short", "code")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", models.AccountTypeAdmin)
	alice := f.user(t, "alice", models.AccountTypeUser)
	helper := f.user(t, "helper", models.AccountTypeUser, permissions.UserCreate, permissions.UserList)

	_, err := f.accounts.ListUsers(ctx, alice.ID, "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	admins, err := f.accounts.ListUsers(ctx, helper.ID, models.AccountTypeAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].Username)

	_, err = f.accounts.CreateUser(ctx, helper.ID, CreateUserInput{Username: "boss", Password: "password123", AccountType: models.AccountTypeAdmin})
	assert.ErrorIs(t, err, apperror.ErrForbidden, "only admins create admins")

	_, err = f.accounts.CreateUser(ctx, admin.ID, CreateUserInput{Username: "mod", Password: "password123", GlobalPermissions: []string{"nope"}})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	mod, err := f.accounts.CreateUser(ctx, admin.ID, CreateUserInput{Username: "mod", Password: "password123", GlobalPermissions: []string{permissions.CommentModerate}})
	require.NoError(t, err)
	assert.True(t, permissions.CanModerate(mod))

	_, err = f.accounts.CreateUser(ctx, admin.ID, CreateUserInput{Username: "mod", Password: "password123"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	assert.ErrorIs(t, f.accounts.DeleteUser(ctx, admin.ID, admin.ID), apperror.ErrForbidden)
	assert.ErrorIs(t, f.accounts.DeleteUser(ctx, alice.ID, mod.ID), apperror.ErrForbidden)
	require.NoError(t, f.accounts.DeleteUser(ctx, admin.ID, mod.ID))
	assert.ErrorIs(t, f.accounts.DeleteUser(ctx, admin.ID, mod.ID), apperror.ErrNotFound)
}

func TestDeleteUserKeepsComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", models.AccountTypeAdmin)
	alice := f.user(t, "alice", models.AccountTypeUser)
	f.image(t, "1")

	_, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, "1", "still here")
	require.NoError(t, err)
	_, err = f.likes.ToggleLike(ctx, alice.ID, models.TargetImage, "1", "")
	require.NoError(t, err)

	require.NoError(t, f.accounts.DeleteUser(ctx, admin.ID, alice.ID))

	comments, err := f.comments.ListComments(ctx, models.TargetImage, "1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice", comments[0].Username)
	assert.Zero(t, f.count(t, &models.Favorite{}, "user_id = ?", alice.ID))

	// a token for the deleted account no longer resolves to a session
	_, err = f.comments.AddComment(ctx, alice.ID, models.TargetImage, "1", "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	_, err := f.albums.CreateAlbum(ctx, alice.ID, "Trip", "")
	require.NoError(t, err)

	profile, err := f.accounts.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	require.Len(t, profile.Albums, 1)

	_, err = f.accounts.Profile(ctx, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.accounts.EnsureAdmin(ctx, "root", "password123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.accounts.EnsureAdmin(ctx, "root2", "password123")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = f.accounts.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), f.count(t, &models.User{}, "account_type = ?", models.AccountTypeAdmin))
}

func TestInviteDeactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", models.AccountTypeAdmin)
	alice := f.user(t, "alice", models.AccountTypeUser)

	invite, err := f.inviteSvc.Create(ctx, admin.ID, nil, nil)
	require.NoError(t, err)

	_, err = f.inviteSvc.List(ctx, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.inviteSvc.Deactivate(ctx, admin.ID, invite.ID))
	assert.ErrorIs(t, f.inviteSvc.Deactivate(ctx, admin.ID, 9999), apperror.ErrNotFound)

	list, err := f.inviteSvc.List(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)

	_, err = f.accounts.Register(ctx, "newbie", "", "password123", invite.Code)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	past := time.Now().Add(-time.Hour)
	_, err = f.inviteSvc.Create(ctx, admin.ID, &past, nil)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestTokenService(t *testing.T) {
	svc := NewTokenService("test-secret-0123456789", time.Hour)

	token, expiresAt, err := svc.Issue(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	other := NewTokenService("another-secret-0123456789", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	_, err = svc.Parse("garbage")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated, "expired")
}

func TestDeletedUserSessionCannotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", models.AccountTypeAdmin)
	alice := f.user(t, "alice", models.AccountTypeUser)
	f.image(t, "9")

	c, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, "9", "before")
	require.NoError(t, err)
	require.NoError(t, f.accounts.DeleteUser(ctx, admin.ID, alice.ID))

	_, err = f.comments.AddComment(ctx, alice.ID, models.TargetImage, "9", "after")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	_, err = f.comments.EditComment(ctx, c.ID, alice.ID, "edited")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	_, err = f.comments.FlagComment(ctx, c.ID, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	assert.ErrorIs(t, f.comments.DeleteComment(ctx, c.ID, alice.ID), apperror.ErrNotAuthenticated)

	_, err = f.likes.ToggleLike(ctx, alice.ID, models.TargetImage, "9", "")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	_, err = f.albums.CreateAlbum(ctx, alice.ID, "Ghost", "")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	kept, err := f.commentsDB.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", kept.Body)
	assert.False(t, kept.Flagged)
	assert.Zero(t, f.count(t, &models.Favorite{}, "user_id = ?", alice.ID))
}
