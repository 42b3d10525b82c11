package ports

import (
	"context"
	"io"

	"github.com/carhub/listings-api/internal/core/domain"
)

// FileUpload is one attached image as received from a multipart request.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// CreateCarInput carries all data needed to create a listing. Tags is the
// raw comma-delimited form value; the service splits and trims it.
type CreateCarInput struct {
	OwnerID     string
	Title       string
	Description string
	Tags        string
	Files       []FileUpload
}

// UpdateCarInput carries a full replacement of title/description/tags plus
// optional new images. When Files is empty the stored images are kept.
type UpdateCarInput struct {
	OwnerID     string
	ID          string
	Title       string
	Description string
	Tags        string
	Files       []FileUpload
}

// CarService defines the use-case operations for car listings. OwnerID is
// always the authenticated identity of the caller; no operation can touch
// another user's listings.
type CarService interface {
	Create(ctx context.Context, input CreateCarInput) (*domain.Car, error)
	List(ctx context.Context, ownerID string) ([]*domain.Car, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Car, error)
	Search(ctx context.Context, ownerID, keyword string) ([]*domain.Car, error)
	Update(ctx context.Context, input UpdateCarInput) (*domain.Car, error)
	Delete(ctx context.Context, ownerID, id string) error
}
