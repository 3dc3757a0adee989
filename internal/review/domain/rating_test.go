package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	ratings := []Rating{
		{UserID: 1, ProductID: 7, Value: 5},
		{UserID: 2, ProductID: 7, Value: 4},
		{UserID: 3, ProductID: 7, Value: 3},
	}

	assert.InDelta(t, 4.0, AverageRating(ratings), 1e-9)
}

func TestAverageRatingEmptyIsZero(t *testing.T) {
	assert.Zero(t, AverageRating(nil))
	assert.Zero(t, AverageRating([]Rating{}))
}
