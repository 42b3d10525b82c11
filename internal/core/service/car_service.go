package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carhub/listings-api/internal/api/metrics"
	"github.com/carhub/listings-api/internal/core/domain"
	"github.com/carhub/listings-api/internal/core/ports"
)

// CarService orchestrates listing CRUD: it enforces the ownership invariant
// via owner-scoped repository calls and couples record mutations with the
// image blob lifecycle.
type CarService struct {
	repo         ports.CarRepository
	blobs        ports.BlobStore
	requireImage bool
	maxImages    int
	logger       zerolog.Logger
}

func NewCarService(repo ports.CarRepository, blobs ports.BlobStore, requireImage bool, maxImages int, logger zerolog.Logger) *CarService {
	if maxImages <= 0 {
		maxImages = 10
	}
	return &CarService{
		repo:         repo,
		blobs:        blobs,
		requireImage: requireImage,
		maxImages:    maxImages,
		logger:       logger,
	}
}

func (s *CarService) Create(ctx context.Context, input ports.CreateCarInput) (*domain.Car, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.requireImage && len(input.Files) == 0 {
		return nil, domain.ErrNoImages
	}
	if len(input.Files) > s.maxImages {
		return nil, domain.ErrInvalidInput
	}

	images, err := s.storeAll(ctx, input.Files)
	if err != nil {
		return nil, err
	}

	car := &domain.Car{
		UserID:      input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Tags:        splitTags(input.Tags),
		Images:      images,
	}

	created, err := s.repo.Create(ctx, car)
	if err != nil {
		// The record never became visible; drop the blobs stored above.
		s.cleanup(ctx, images)
		return nil, err
	}

	metrics.CarsCreatedTotal.Inc()
	s.logger.Info().Str("car_id", created.ID).Str("user_id", input.OwnerID).Int("images", len(images)).Msg("car created")
	return created, nil
}

func (s *CarService) List(ctx context.Context, ownerID string) ([]*domain.Car, error) {
	return s.repo.FindAllByOwner(ctx, ownerID)
}

func (s *CarService) Get(ctx context.Context, ownerID, id string) (*domain.Car, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

func (s *CarService) Search(ctx context.Context, ownerID, keyword string) ([]*domain.Car, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, domain.ErrEmptyKeyword
	}
	return s.repo.SearchByTitle(ctx, ownerID, keyword)
}

// Update replaces title/description/tags and, only when new files are
// attached, the images. Prior blobs are removed strictly after the record
// update commits, so the stored record never references deleted blobs.
func (s *CarService) Update(ctx context.Context, input ports.UpdateCarInput) (*domain.Car, error) {
	if len(input.Files) > s.maxImages {
		return nil, domain.ErrInvalidInput
	}

	// The prior locators are needed for cleanup once the update commits.
	// This also fails fast with ErrCarNotFound before any blob is written.
	existing, err := s.repo.FindByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	var newImages []string
	if len(input.Files) > 0 {
		newImages, err = s.storeAll(ctx, input.Files)
		if err != nil {
			return nil, err
		}
	}

	patch := ports.CarPatch{
		Title:       input.Title,
		Description: input.Description,
		Tags:        splitTags(input.Tags),
		Images:      newImages,
	}

	updated, err := s.repo.UpdateByID(ctx, input.OwnerID, input.ID, patch)
	if err != nil {
		s.cleanup(ctx, newImages)
		return nil, err
	}

	if newImages != nil {
		s.cleanup(ctx, existing.Images)
	}

	metrics.CarsUpdatedTotal.Inc()
	s.logger.Info().Str("car_id", updated.ID).Bool("images_replaced", newImages != nil).Msg("car updated")
	return updated, nil
}

func (s *CarService) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	s.cleanup(ctx, deleted.Images)

	metrics.CarsDeletedTotal.Inc()
	s.logger.Info().Str("car_id", id).Str("user_id", ownerID).Msg("car deleted")
	return nil
}

// storeAll uploads every file in attachment order. On failure the blobs
// already stored by this call are removed best-effort before returning.
func (s *CarService) storeAll(ctx context.Context, files []ports.FileUpload) ([]string, error) {
	locators := make([]string, 0, len(files))
	for _, f := range files {
		loc, err := s.blobs.Store(ctx, f.Content, f.Name)
		if err != nil {
			s.cleanup(ctx, locators)
			return nil, err
		}
		locators = append(locators, loc)
	}
	return locators, nil
}

// cleanup removes blobs best-effort. By the time it runs the visible record
// state has already changed, so failures are logged and swallowed.
func (s *CarService) cleanup(ctx context.Context, locators []string) {
	for _, loc := range locators {
		if err := s.blobs.Delete(ctx, loc); err != nil {
			metrics.BlobCleanupFailuresTotal.Inc()
			s.logger.Warn().Err(err).Str("locator", loc).Msg("blob cleanup failed")
		}
	}
}

// splitTags turns a comma-delimited form value into a trimmed sequence.
// Empty items are dropped; the zero value is an empty slice, never nil.
func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
