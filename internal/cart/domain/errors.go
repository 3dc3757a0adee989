package domain

import "errors"

var (
	ErrNotFound      = errors.New("cart entity not found")
	ErrInvalidAction = errors.New("action must be increment, decrement or remove")
	ErrNoCart        = errors.New("no cart identifier supplied")
)
