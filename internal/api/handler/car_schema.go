package handler

import (
	"time"

	"github.com/carhub/listings-api/internal/core/domain"
)

// carResponse is the wire representation of a listing.
type carResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type deleteCarResponse struct {
	Message string `json:"message"`
}

func toCarResponse(car *domain.Car) carResponse {
	tags := car.Tags
	if tags == nil {
		tags = []string{}
	}
	images := car.Images
	if images == nil {
		images = []string{}
	}
	return carResponse{
		ID:          car.ID,
		UserID:      car.UserID,
		Title:       car.Title,
		Description: car.Description,
		Tags:        tags,
		Images:      images,
		CreatedAt:   car.CreatedAt.UTC(),
		UpdatedAt:   car.UpdatedAt.UTC(),
	}
}

func toCarListResponse(cars []*domain.Car) []carResponse {
	out := make([]carResponse, len(cars))
	for i, car := range cars {
		out[i] = toCarResponse(car)
	}
	return out
}
