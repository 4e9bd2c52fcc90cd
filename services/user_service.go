package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/logging"
	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/permissions"
	"github.com/camden-git/mediashare/repository"
)

// UserService covers sessions, registration, profiles and admin user management.
type UserService struct {
	users   repository.UserRepository
	invites repository.InviteCodeRepository
	albums  repository.AlbumRepository
	tokens  *TokenService
	store   storeCaller
	now     func() time.Time
}

func NewUserService(
	users repository.UserRepository,
	invites repository.InviteCodeRepository,
	albums repository.AlbumRepository,
	tokens *TokenService,
	storeTimeout time.Duration,
) *UserService {
	return &UserService{
		users:   users,
		invites: invites,
		albums:  albums,
		tokens:  tokens,
		store:   newStoreCaller(storeTimeout),
		now:     time.Now,
	}
}

type Session struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type Profile struct {
	User   models.PublicUser `json:"user"`
	Albums []models.Album    `json:"albums"`
}

type registration struct {
	Username   string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	InviteCode string `json:"invite_code" validate:"required"`
}

type newUser struct {
	Username    string   `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email       string   `json:"email" validate:"omitempty,email,max=254"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	AccountType string   `json:"account_type" validate:"required,oneof=user admin"`
	Permissions []string `json:"global_permissions" validate:"dive,required"`
}

// CreateUserInput is what an admin submits to create an account directly.
type CreateUserInput struct {
	Username          string
	Email             string
	Password          string
	AccountType       models.AccountType
	GlobalPermissions []string
}

var errBadCredentials = &apperror.AppError{Err: apperror.ErrNotAuthenticated, Message: "invalid username or password"}

// Login checks the password and issues a session token.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "username and password are required")
	}

	user, err := s.byUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		logging.Ctx(ctx).Info().Str("username", username).Msg("failed login")
		return nil, errBadCredentials
	}
	return s.issue(user)
}

// Register creates a regular account, consuming one use of the invite code in the
// same transaction.
func (s *UserService) Register(ctx context.Context, username, email, password, inviteCode string) (*Session, error) {
	in := registration{
		Username:   strings.TrimSpace(username),
		Email:      strings.TrimSpace(email),
		Password:   password,
		InviteCode: strings.TrimSpace(inviteCode),
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var invite *models.InviteCode
	err := s.store.call(ctx, "invite_code.get", func(ctx context.Context) error {
		var err error
		invite, err = s.invites.GetByCode(ctx, in.InviteCode)
		return err
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Forbidden("invalid or expired invite code")
	}
	if err != nil {
		return nil, err
	}
	if !invite.IsValidAt(s.now()) {
		return nil, apperror.Forbidden("invalid or expired invite code")
	}

	user := &models.User{
		Username:          in.Username,
		Email:             in.Email,
		AccountType:       models.AccountTypeUser,
		GlobalPermissions: []string{},
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	err = s.store.call(ctx, "user.create_with_invite", func(ctx context.Context) error {
		return s.users.CreateWithInvite(ctx, user, invite.ID)
	})
	switch {
	case errors.Is(err, apperror.ErrConflict):
		return nil, apperror.Conflict("username", "username already taken")
	case errors.Is(err, apperror.ErrNotFound):
		// the code was used up or deactivated between the check and the transaction
		return nil, apperror.Forbidden("invalid or expired invite code")
	case err != nil:
		return nil, err
	}

	logging.Ctx(ctx).Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return s.issue(user)
}

// CurrentUser returns the account behind a session.
func (s *UserService) CurrentUser(ctx context.Context, requesterID uint) (*models.User, error) {
	return loadRequester(ctx, s.store, s.users, requesterID)
}

// Profile returns the public view of a user and their albums.
func (s *UserService) Profile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.byUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NotFound("user", username)
	}
	if err != nil {
		return nil, err
	}

	var albums []models.Album
	err = s.store.call(ctx, "album.list_by_owner", func(ctx context.Context) error {
		var err error
		albums, err = s.albums.ListByOwnerUsername(ctx, user.Username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Profile{User: user.Public(), Albums: albums}, nil
}

// ListUsers returns all users, optionally only those of one account type.
func (s *UserService) ListUsers(ctx context.Context, requesterID uint, accountType models.AccountType) ([]models.User, error) {
	if _, err := s.authorize(ctx, requesterID, permissions.UserList); err != nil {
		return nil, err
	}
	if accountType != "" && !accountType.IsValid() {
		return nil, apperror.ValidationFailed("account_type", "account_type must be one of: user admin")
	}
	var out []models.User
	err := s.store.call(ctx, "user.list", func(ctx context.Context) error {
		var err error
		out, err = s.users.List(ctx, accountType)
		return err
	})
	return out, err
}

// CreateUser lets an admin create an account without an invite code.
func (s *UserService) CreateUser(ctx context.Context, requesterID uint, input CreateUserInput) (*models.User, error) {
	requester, err := s.authorize(ctx, requesterID, permissions.UserCreate)
	if err != nil {
		return nil, err
	}
	if input.AccountType == "" {
		input.AccountType = models.AccountTypeUser
	}
	if input.AccountType == models.AccountTypeAdmin && !requester.IsAdmin() {
		return nil, apperror.Forbidden("only admins may create admin accounts")
	}
	in := newUser{
		Username:    strings.TrimSpace(input.Username),
		Email:       strings.TrimSpace(input.Email),
		Password:    input.Password,
		AccountType: string(input.AccountType),
		Permissions: input.GlobalPermissions,
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	for _, p := range in.Permissions {
		if !permissions.IsValidPermissionKey(p) {
			return nil, apperror.ValidationFailed("global_permissions", "unknown permission "+p)
		}
	}
	if in.Permissions == nil {
		in.Permissions = []string{}
	}

	user := &models.User{
		Username:          in.Username,
		Email:             in.Email,
		AccountType:       input.AccountType,
		GlobalPermissions: in.Permissions,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.create(ctx, user); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Uint("user_id", user.ID).Uint("created_by", requesterID).Msg("user created by admin")
	return user, nil
}

// DeleteUser removes an account with its albums and likes. Comments stay, carrying
// the username snapshot. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, requesterID, userID uint) error {
	if _, err := s.authorize(ctx, requesterID, permissions.UserDelete); err != nil {
		return err
	}
	if requesterID == userID {
		return apperror.Forbidden("you cannot delete your own account")
	}
	err := s.store.call(ctx, "user.delete", func(ctx context.Context) error {
		return s.users.Delete(ctx, userID)
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound("user", userID)
	}
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Uint("user_id", userID).Uint("deleted_by", requesterID).Msg("user deleted")
	return nil
}

// EnsureAdmin creates the first admin account when none exists. It is a no-op once
// any admin is present.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	var count int64
	err := s.store.call(ctx, "user.count_admins", func(ctx context.Context) error {
		var err error
		count, err = s.users.CountByAccountType(ctx, models.AccountTypeAdmin)
		return err
	})
	if err != nil || count > 0 {
		return false, err
	}

	admin := &models.User{
		Username:          username,
		AccountType:       models.AccountTypeAdmin,
		GlobalPermissions: []string{},
	}
	if err := admin.SetPassword(password); err != nil {
		return false, err
	}
	if err := s.create(ctx, admin); err != nil {
		return false, err
	}
	logging.Ctx(ctx).Info().Str("username", username).Msg("bootstrap admin created")
	return true, nil
}

func (s *UserService) create(ctx context.Context, user *models.User) error {
	err := s.store.call(ctx, "user.create", func(ctx context.Context) error {
		return s.users.Create(ctx, user)
	})
	if errors.Is(err, apperror.ErrConflict) {
		return apperror.Conflict("username", "username already taken")
	}
	return err
}

func (s *UserService) authorize(ctx context.Context, requesterID uint, permission string) (*models.User, error) {
	requester, err := loadRequester(ctx, s.store, s.users, requesterID)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(requester, permission) {
		return nil, apperror.Forbidden("requires permission " + permission)
	}
	return requester, nil
}

func (s *UserService) byUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User
	err := s.store.call(ctx, "user.get_by_username", func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByUsername(ctx, username)
		return err
	})
	return user, err
}

func (s *UserService) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user, ExpiresAt: expiresAt}, nil
}
