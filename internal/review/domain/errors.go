package domain

import "errors"

var (
	ErrNotFound      = errors.New("review entity not found")
	ErrInvalidRating = errors.New("rating value must be between 1 and 5")
	ErrEmptyReview   = errors.New("review text must not be empty")
)
