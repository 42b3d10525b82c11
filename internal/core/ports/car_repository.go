package ports

import (
	"context"

	"github.com/carhub/listings-api/internal/core/domain"
)

// CarPatch carries the fields applied by UpdateByID. Title, Description and
// Tags always overwrite; Images overwrites only when non-nil (nil means
// "keep the stored sequence").
type CarPatch struct {
	Title       string
	Description string
	Tags        []string
	Images      []string
}

// CarRepository defines persistence operations for car listings. Every read
// and every mutation is conditioned on both the record id and the owner id in
// a single store operation, so a listing is invisible to any other user and
// update/delete cannot race an ownership check.
type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) (*domain.Car, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error)
	FindByID(ctx context.Context, ownerID, id string) (*domain.Car, error)
	// SearchByTitle returns the owner's listings whose title contains keyword
	// as a case-insensitive substring.
	SearchByTitle(ctx context.Context, ownerID, keyword string) ([]*domain.Car, error)
	// UpdateByID applies patch atomically and returns the updated record, or
	// domain.ErrCarNotFound when no record matches id+owner.
	UpdateByID(ctx context.Context, ownerID, id string, patch CarPatch) (*domain.Car, error)
	// DeleteByID removes the record and returns its last state so the caller
	// can clean up attached blobs.
	DeleteByID(ctx context.Context, ownerID, id string) (*domain.Car, error)
}
