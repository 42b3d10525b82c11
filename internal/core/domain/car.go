package domain

import (
	"errors"
	"time"
)

// ErrCarNotFound covers both "no such listing" and "listing owned by someone
// else" — repositories never distinguish the two, so a caller cannot probe
// for the existence of another user's listings.
var ErrCarNotFound = errors.New("car not found")

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoImages     = errors.New("no images uploaded")
	ErrEmptyKeyword = errors.New("search keyword is required")
)

// Car is a listing owned by exactly one user. UserID is set at creation and
// never changes; every repository operation filters by it.
type Car struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
