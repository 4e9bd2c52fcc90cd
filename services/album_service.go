package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/logging"
	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/repository"
)

// AlbumService manages albums and their media links. Only the owner may change an album.
type AlbumService struct {
	albums repository.AlbumRepository
	users  repository.UserRepository
	store  storeCaller
}

func NewAlbumService(albums repository.AlbumRepository, users repository.UserRepository, storeTimeout time.Duration) *AlbumService {
	return &AlbumService{albums: albums, users: users, store: newStoreCaller(storeTimeout)}
}

type albumInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type mediaInput struct {
	MediaID string `json:"media_id" validate:"required,max=64"`
	URL     string `json:"url" validate:"required,url,max=2048"`
}

func (s *AlbumService) CreateAlbum(ctx context.Context, requesterID uint, title, description string) (*models.Album, error) {
	owner, err := loadRequester(ctx, s.store, s.users, requesterID)
	if err != nil {
		return nil, err
	}
	in := albumInput{Title: strings.TrimSpace(title), Description: strings.TrimSpace(description)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	album := &models.Album{
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
		Title:         in.Title,
		Description:   in.Description,
		Media:         []models.AlbumMediaLink{},
	}
	if err := s.store.call(ctx, "album.create", func(ctx context.Context) error {
		return s.albums.Create(ctx, album)
	}); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Uint("album_id", album.ID).Uint("owner_id", owner.ID).Msg("album created")
	return album, nil
}

// GetAlbum returns the album with its media links.
func (s *AlbumService) GetAlbum(ctx context.Context, albumID uint) (*models.Album, error) {
	var album *models.Album
	err := s.store.call(ctx, "album.get", func(ctx context.Context) error {
		var err error
		album, err = s.albums.GetByID(ctx, albumID)
		return err
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NotFound("album", albumID)
	}
	return album, err
}

// ListByOwner returns a user's albums in natural title order.
func (s *AlbumService) ListByOwner(ctx context.Context, username string) ([]models.Album, error) {
	var out []models.Album
	err := s.store.call(ctx, "album.list_by_owner", func(ctx context.Context) error {
		var err error
		out, err = s.albums.ListByOwnerUsername(ctx, username)
		return err
	})
	return out, err
}

// EditAlbum updates title and description and returns the stored album.
func (s *AlbumService) EditAlbum(ctx context.Context, albumID, requesterID uint, title, description string) (*models.Album, error) {
	if _, err := s.owned(ctx, albumID, requesterID, "edit"); err != nil {
		return nil, err
	}
	in := albumInput{Title: strings.TrimSpace(title), Description: strings.TrimSpace(description)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var updated *models.Album
	err := s.store.call(ctx, "album.update", func(ctx context.Context) error {
		var err error
		updated, err = s.albums.Update(ctx, albumID, in.Title, in.Description)
		return err
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NotFound("album", albumID)
	}
	return updated, err
}

// DeleteAlbum removes the album after its media links, comments and likes. If any
// step fails nothing is removed and a CascadeFailure is returned.
func (s *AlbumService) DeleteAlbum(ctx context.Context, albumID, requesterID uint) error {
	if _, err := s.owned(ctx, albumID, requesterID, "delete"); err != nil {
		return err
	}
	err := s.store.call(ctx, "album.delete_cascade", func(ctx context.Context) error {
		return s.albums.DeleteCascade(ctx, albumID)
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound("album", albumID)
	}
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Uint("album_id", albumID).Msg("album delete aborted")
		return err
	}
	logging.Ctx(ctx).Info().Uint("album_id", albumID).Msg("album deleted")
	return nil
}

// AddMedia links an image or video to the album and returns the updated album.
func (s *AlbumService) AddMedia(ctx context.Context, albumID, requesterID uint, mediaID, url string, kind models.MediaKind) (*models.Album, error) {
	if _, err := s.owned(ctx, albumID, requesterID, "edit"); err != nil {
		return nil, err
	}
	in := mediaInput{MediaID: strings.TrimSpace(mediaID), URL: strings.TrimSpace(url)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, apperror.ValidationFailed("kind", "kind must be one of: image video")
	}

	link := &models.AlbumMediaLink{AlbumID: albumID, MediaID: in.MediaID, URL: in.URL, Kind: kind}
	if err := s.store.call(ctx, "album.add_media", func(ctx context.Context) error {
		return s.albums.AddMedia(ctx, link)
	}); err != nil {
		return nil, err
	}
	return s.GetAlbum(ctx, albumID)
}

// RemoveMedia unlinks one media link from the album and returns the updated album.
func (s *AlbumService) RemoveMedia(ctx context.Context, albumID, linkID, requesterID uint) (*models.Album, error) {
	if _, err := s.owned(ctx, albumID, requesterID, "edit"); err != nil {
		return nil, err
	}
	err := s.store.call(ctx, "album.delete_media", func(ctx context.Context) error {
		return s.albums.DeleteMedia(ctx, albumID, linkID)
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NotFound("media link", linkID)
	}
	if err != nil {
		return nil, err
	}
	return s.GetAlbum(ctx, albumID)
}

func (s *AlbumService) owned(ctx context.Context, albumID, requesterID uint, action string) (*models.Album, error) {
	if _, err := loadRequester(ctx, s.store, s.users, requesterID); err != nil {
		return nil, err
	}
	album, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album.OwnerID != requesterID {
		return nil, apperror.Forbidden("only the owner may " + action + " this album")
	}
	return album, nil
}
