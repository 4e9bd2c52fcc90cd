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
	"github.com/camden-git/mediashare/photoapi"
	"github.com/camden-git/mediashare/repository"
)

// PhotoFetcher is the part of the photo API client the image service needs.
type PhotoFetcher interface {
	GetPhoto(ctx context.Context, id string) (*photoapi.Photo, error)
}

// ImageDetails is what an image page renders: the upstream photo plus local counters.
type ImageDetails struct {
	Photo *photoapi.Photo `json:"photo"`
	Image *models.Image   `json:"image"`
}

type ImageService struct {
	photos PhotoFetcher
	images repository.ImageRepository
	store  storeCaller
}

func NewImageService(photos PhotoFetcher, images repository.ImageRepository, storeTimeout time.Duration) *ImageService {
	return &ImageService{photos: photos, images: images, store: newStoreCaller(storeTimeout)}
}

// Details fetches the photo and, only once that succeeded, counts the view.
func (s *ImageService) Details(ctx context.Context, externalID string) (*ImageDetails, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperror.ValidationFailed("id", "image id is required")
	}

	photo, err := s.photos.GetPhoto(ctx, externalID)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrTimeout):
			return nil, err
		default:
			return nil, &apperror.AppError{Err: apperror.ErrUpstreamUnavailable, Message: "details unavailable", Cause: err}
		}
	}

	image, err := s.RecordView(ctx, externalID, photo.Src.Original)
	if err != nil {
		return nil, err
	}
	return &ImageDetails{Photo: photo, Image: image}, nil
}

// RecordView creates the image row with views=1 on first sight and increments it afterwards.
func (s *ImageService) RecordView(ctx context.Context, externalID, url string) (*models.Image, error) {
	var image *models.Image
	err := s.store.call(ctx, "image.upsert_view", func(ctx context.Context) error {
		var err error
		image, err = s.images.UpsertView(ctx, externalID, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.ImageViews.Inc()
	logging.Ctx(ctx).Debug().Str("api_image_id", externalID).Int64("views", image.Views).Msg("image view recorded")
	return image, nil
}
