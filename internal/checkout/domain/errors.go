package domain

import "errors"

var (
	// ErrEmptyCart is returned when checkout is attempted against a cart
	// with no lines. Zero-amount sessions are never created.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentFailed wraps processor and transport failures.
	ErrPaymentFailed = errors.New("payment processor request failed")
	ErrNotFound      = errors.New("order not found")
)
