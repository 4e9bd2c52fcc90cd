package services

import (
	"context"
	"strings"
	"testing"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentRequiresSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.comments.AddComment(context.Background(), 0, models.TargetAlbum, "42", "nice")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
	assert.Zero(t, f.count(t, &models.Comment{}, ""))
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	f.image(t, "2014422")

	c, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, "2014422", "  lovely light  ")
	require.NoError(t, err)
	assert.Equal(t, "lovely light", c.Body)
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, alice.ID, c.AuthorID)
	assert.False(t, c.Flagged)

	list, err := f.comments.ListComments(ctx, models.TargetImage, "2014422")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestAddCommentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	f.image(t, "1")

	tests := []struct {
		name    string
		kind    models.TargetKind
		target  string
		body    string
		wantErr error
	}{
		{"empty body", models.TargetImage, "1", "   ", apperror.ErrValidation},
		{"body too long", models.TargetImage, "1", strings.Repeat("x", 2001), apperror.ErrValidation},
		{"unknown kind", models.TargetKind("video"), "1", "hi", apperror.ErrValidation},
		{"album id not numeric", models.TargetAlbum, "abc", "hi", apperror.ErrValidation},
		{"unknown album", models.TargetAlbum, "999", "hi", apperror.ErrNotFound},
		{"unknown image", models.TargetImage, "never-viewed", "hi", apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.comments.AddComment(ctx, alice.ID, tt.kind, tt.target, tt.body)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, f.count(t, &models.Comment{}, ""))
}

func TestEditCommentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	bob := f.user(t, "bob", models.AccountTypeUser)
	f.image(t, "1")

	c, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, "1", "first")
	require.NoError(t, err)

	_, err = f.comments.EditComment(ctx, c.ID, bob.ID, "hijacked")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.comments.EditComment(ctx, 9999, alice.ID, "nothing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	updated, err := f.comments.EditComment(ctx, c.ID, alice.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Body)
	assert.Equal(t, alice.ID, updated.AuthorID)
}

func TestDeleteCommentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	bob := f.user(t, "bob", models.AccountTypeUser)
	f.image(t, "1")

	c, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, "1", "mine")
	require.NoError(t, err)

	err = f.comments.DeleteComment(ctx, c.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, int64(1), f.count(t, &models.Comment{}, "id = ?", c.ID))

	err = f.comments.DeleteComment(ctx, c.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	require.NoError(t, f.comments.DeleteComment(ctx, c.ID, alice.ID))
	assert.Zero(t, f.count(t, &models.Comment{}, "id = ?", c.ID))

	err = f.comments.DeleteComment(ctx, c.ID, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFlagCommentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	bob := f.user(t, "bob", models.AccountTypeUser)
	f.image(t, "1")

	c, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, "1", "spam?")
	require.NoError(t, err)

	_, err = f.comments.FlagComment(ctx, c.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)

	first, err := f.comments.FlagComment(ctx, c.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, first.Flagged)

	second, err := f.comments.FlagComment(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, second.Flagged)
	assert.Equal(t, first.Body, second.Body)
}

func TestUnflagRequiresModerator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	mod := f.user(t, "mod", models.AccountTypeUser, permissions.CommentModerate)
	f.image(t, "1")

	c, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, "1", "spam?")
	require.NoError(t, err)
	_, err = f.comments.FlagComment(ctx, c.ID, alice.ID)
	require.NoError(t, err)

	_, err = f.comments.UnflagComment(ctx, c.ID, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	stored, err := f.commentsDB.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, stored.Flagged, "a rejected unflag must leave the flag set")

	resolved, err := f.moderation.ResolveFlag(ctx, c.ID, mod.ID)
	require.NoError(t, err)
	assert.False(t, resolved.Flagged)
}

func TestListFlaggedNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	admin := f.user(t, "admin", models.AccountTypeAdmin)
	f.image(t, "1")
	f.image(t, "2")

	var ids []uint
	for _, target := range []string{"1", "2", "1"} {
		c, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, target, "c"+target)
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	_, err := f.comments.FlagComment(ctx, ids[0], alice.ID)
	require.NoError(t, err)
	_, err = f.comments.FlagComment(ctx, ids[2], alice.ID)
	require.NoError(t, err)

	_, err = f.moderation.ListFlagged(ctx, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	flagged, err := f.moderation.ListFlagged(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, flagged, 2)
	assert.Equal(t, ids[2], flagged[0].ID)
	assert.Equal(t, ids[0], flagged[1].ID)
}

func TestPurgeComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	bob := f.user(t, "bob", models.AccountTypeUser)
	admin := f.user(t, "admin", models.AccountTypeAdmin)
	f.image(t, "1")

	c, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, "1", "rude")
	require.NoError(t, err)

	assert.ErrorIs(t, f.moderation.PurgeComment(ctx, c.ID, bob.ID), apperror.ErrForbidden)
	assert.ErrorIs(t, f.moderation.PurgeComment(ctx, c.ID, 0), apperror.ErrNotAuthenticated)
	require.NoError(t, f.moderation.PurgeComment(ctx, c.ID, admin.ID))
	assert.Zero(t, f.count(t, &models.Comment{}, ""))
	assert.ErrorIs(t, f.moderation.PurgeComment(ctx, c.ID, admin.ID), apperror.ErrNotFound)
}

func TestListCommentsPageSize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	f.image(t, "1")
	svc := NewCommentService(f.commentsDB, f.users, f.albumsRepo, f.images, testStoreTimeout, 2)

	for _, body := range []string{"a", "b", "c"} {
		_, err := svc.AddComment(ctx, alice.ID, models.TargetImage, "1", body)
		require.NoError(t, err)
	}
	list, err := svc.ListComments(ctx, models.TargetImage, "1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Body)
	assert.Equal(t, "b", list[1].Body)
}

func TestAlbumCommentTargetIsCanonical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	album, err := f.albums.CreateAlbum(ctx, alice.ID, "Trip", "")
	require.NoError(t, err)
	padded := "00" + albumTargetID(album.ID)

	c, err := f.comments.AddComment(ctx, alice.ID, models.TargetAlbum, padded, "hi")
	require.NoError(t, err)
	assert.Equal(t, albumTargetID(album.ID), c.TargetID)

	list, err := f.comments.ListComments(ctx, models.TargetAlbum, padded)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.albums.DeleteAlbum(ctx, album.ID, alice.ID))
	assert.Zero(t, f.count(t, &models.Comment{}, ""))
}

func TestListCommentsRequiresTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", models.AccountTypeUser)
	for _, id := range []string{"1", "2"} {
		f.image(t, id)
		_, err := f.comments.AddComment(ctx, alice.ID, models.TargetImage, id, "hi")
		require.NoError(t, err)
	}

	for _, target := range []string{"", "   "} {
		list, err := f.comments.ListComments(ctx, models.TargetImage, target)
		assert.ErrorIs(t, err, apperror.ErrValidation, "target %q", target)
		assert.Empty(t, list)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "target_id", appErr.Field)
	}

	list, err := f.comments.ListComments(ctx, models.TargetImage, " 1 ")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
