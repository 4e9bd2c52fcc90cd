package services

import (
	"context"
	"testing"
	"time"

	"github.com/camden-git/mediashare/database"
	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testStoreTimeout = 2 * time.Second

type fixture struct {
	db         *gorm.DB
	users      repository.UserRepository
	images     repository.ImageRepository
	albumsRepo repository.AlbumRepository
	commentsDB repository.CommentRepository
	favorites  repository.FavoriteRepository
	invites    repository.InviteCodeRepository

	comments   *CommentService
	likes      *FavoriteService
	moderation *ModerationService
	albums     *AlbumService
	accounts   *UserService
	inviteSvc  *InviteService
	tokens     *TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.NewTestDB(t)
	f := &fixture{
		db:         db,
		users:      repository.NewGormUserRepository(db),
		images:     repository.NewGormImageRepository(db),
		albumsRepo: repository.NewGormAlbumRepository(db),
		commentsDB: repository.NewGormCommentRepository(db),
		favorites:  repository.NewGormFavoriteRepository(db),
		invites:    repository.NewGormInviteCodeRepository(db),
		tokens:     NewTokenService("test-secret-0123456789", time.Hour),
	}
	f.comments = NewCommentService(f.commentsDB, f.users, f.albumsRepo, f.images, testStoreTimeout, 50)
	f.likes = NewFavoriteService(f.favorites, f.albumsRepo, f.users, testStoreTimeout)
	f.moderation = NewModerationService(f.comments)
	f.albums = NewAlbumService(f.albumsRepo, f.users, testStoreTimeout)
	f.accounts = NewUserService(f.users, f.invites, f.albumsRepo, f.tokens, testStoreTimeout)
	f.inviteSvc = NewInviteService(f.invites, f.users, testStoreTimeout)
	return f
}

func (f *fixture) user(t *testing.T, username string, accountType models.AccountType, perms ...string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", AccountType: accountType, GlobalPermissions: perms}
	require.NoError(t, u.SetPassword("password123"))
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) image(t *testing.T, externalID string) *models.Image {
	t.Helper()
	img, err := f.images.UpsertView(context.Background(), externalID, "https://images.example.com/"+externalID+".jpeg")
	require.NoError(t, err)
	return img
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
