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
	"github.com/camden-git/mediashare/repository"
)

// FavoriteService toggles likes on images and albums.
//
// The existence check and the insert are not atomic. Uniqueness is enforced by the
// store's unique index; an insert that loses a race comes back as DuplicateFavorite,
// which the toggle treats as "already liked".
type FavoriteService struct {
	favorites repository.FavoriteRepository
	albums    repository.AlbumRepository
	users     repository.UserRepository
	store     storeCaller
}

func NewFavoriteService(favorites repository.FavoriteRepository, albums repository.AlbumRepository, users repository.UserRepository, storeTimeout time.Duration) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		albums:    albums,
		users:     users,
		store:     newStoreCaller(storeTimeout),
	}
}

type likeInput struct {
	TargetKind string `json:"target_kind" validate:"required,oneof=image album"`
	TargetID   string `json:"target_id" validate:"required,max=64"`
	URL        string `json:"url" validate:"omitempty,url,max=2048"`
}

// ToggleLike flips the like relation between the requester and a target and returns
// the state as persisted afterwards.
func (s *FavoriteService) ToggleLike(ctx context.Context, requesterID uint, targetKind models.TargetKind, targetID, url string) (*models.LikeState, error) {
	if _, err := loadRequester(ctx, s.store, s.users, requesterID); err != nil {
		return nil, err
	}
	in := likeInput{TargetKind: string(targetKind), TargetID: strings.TrimSpace(targetID), URL: strings.TrimSpace(url)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var err error
	if in.TargetID, err = canonicalTarget(targetKind, in.TargetID); err != nil {
		return nil, err
	}

	var liked bool
	switch targetKind {
	case models.TargetAlbum:
		liked, err = s.toggleAlbum(ctx, requesterID, in.TargetID)
	default:
		liked, err = s.toggleImage(ctx, requesterID, in.TargetID, in.URL)
	}
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	metrics.FavoriteToggles.WithLabelValues(string(targetKind), state).Inc()
	return &models.LikeState{TargetKind: targetKind, TargetID: in.TargetID, Liked: liked}, nil
}

func (s *FavoriteService) toggleImage(ctx context.Context, userID uint, apiImageID, url string) (bool, error) {
	exists, err := s.imageLiked(ctx, userID, apiImageID)
	if err != nil {
		return false, err
	}
	if exists {
		err := s.store.call(ctx, "favorite.delete", func(ctx context.Context) error {
			_, err := s.favorites.DeleteImageFavorite(ctx, userID, apiImageID)
			return err
		})
		return false, err
	}

	err = s.store.call(ctx, "favorite.insert", func(ctx context.Context) error {
		return s.favorites.InsertImageFavorite(ctx, &models.Favorite{UserID: userID, APIImageID: apiImageID, ImageURL: url})
	})
	if errors.Is(err, apperror.ErrDuplicateFavorite) {
		metrics.FavoriteRaceRetries.Inc()
		logging.Ctx(ctx).Debug().Uint("user_id", userID).Str("api_image_id", apiImageID).Msg("favorite insert lost race, re-reading")
		return s.imageLiked(ctx, userID, apiImageID)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoriteService) toggleAlbum(ctx context.Context, userID uint, targetID string) (bool, error) {
	albumID, err := parseAlbumID(targetID)
	if err != nil {
		return false, err
	}
	exists, err := s.albumLiked(ctx, userID, albumID)
	if err != nil {
		return false, err
	}
	if exists {
		err := s.store.call(ctx, "album_favorite.delete", func(ctx context.Context) error {
			_, err := s.favorites.DeleteAlbumFavorite(ctx, userID, albumID)
			return err
		})
		return false, err
	}

	err = s.store.call(ctx, "album.get", func(ctx context.Context) error {
		_, err := s.albums.GetByID(ctx, albumID)
		return err
	})
	if errors.Is(err, apperror.ErrNotFound) {
		return false, apperror.NotFound("album", albumID)
	}
	if err != nil {
		return false, err
	}

	err = s.store.call(ctx, "album_favorite.insert", func(ctx context.Context) error {
		return s.favorites.InsertAlbumFavorite(ctx, &models.AlbumFavorite{UserID: userID, AlbumID: albumID})
	})
	if errors.Is(err, apperror.ErrDuplicateFavorite) {
		metrics.FavoriteRaceRetries.Inc()
		return s.albumLiked(ctx, userID, albumID)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LikeState reports whether the requester currently likes the target. Anonymous
// requesters never do.
func (s *FavoriteService) LikeState(ctx context.Context, requesterID uint, targetKind models.TargetKind, targetID string) (*models.LikeState, error) {
	if !targetKind.IsValid() {
		return nil, apperror.ValidationFailed("target_kind", "target_kind must be one of: image album")
	}
	targetID, err := canonicalTarget(targetKind, targetID)
	if err != nil {
		return nil, err
	}
	state := &models.LikeState{TargetKind: targetKind, TargetID: targetID}
	if requesterID == 0 {
		return state, nil
	}

	switch targetKind {
	case models.TargetAlbum:
		albumID, perr := parseAlbumID(targetID)
		if perr != nil {
			return nil, perr
		}
		state.Liked, err = s.albumLiked(ctx, requesterID, albumID)
	default:
		state.Liked, err = s.imageLiked(ctx, requesterID, targetID)
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// ListFavorites returns the requester's liked images, newest first.
func (s *FavoriteService) ListFavorites(ctx context.Context, requesterID uint) ([]models.Favorite, error) {
	if requesterID == 0 {
		return nil, apperror.NotAuthenticated()
	}
	var out []models.Favorite
	err := s.store.call(ctx, "favorite.list", func(ctx context.Context) error {
		var err error
		out, err = s.favorites.ListImageFavorites(ctx, requesterID)
		return err
	})
	return out, err
}

func (s *FavoriteService) ListAlbumFavorites(ctx context.Context, requesterID uint) ([]models.AlbumFavorite, error) {
	if requesterID == 0 {
		return nil, apperror.NotAuthenticated()
	}
	var out []models.AlbumFavorite
	err := s.store.call(ctx, "album_favorite.list", func(ctx context.Context) error {
		var err error
		out, err = s.favorites.ListAlbumFavorites(ctx, requesterID)
		return err
	})
	return out, err
}

func (s *FavoriteService) imageLiked(ctx context.Context, userID uint, apiImageID string) (bool, error) {
	err := s.store.call(ctx, "favorite.get", func(ctx context.Context) error {
		_, err := s.favorites.GetImageFavorite(ctx, userID, apiImageID)
		return err
	})
	return found(err)
}

func (s *FavoriteService) albumLiked(ctx context.Context, userID, albumID uint) (bool, error) {
	err := s.store.call(ctx, "album_favorite.get", func(ctx context.Context) error {
		_, err := s.favorites.GetAlbumFavorite(ctx, userID, albumID)
		return err
	})
	return found(err)
}

func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	return false, err
}
