package domain

import "errors"

var (
	ErrNotFound      = errors.New("catalog entity not found")
	ErrCategoryCycle = errors.New("category parent chain would form a cycle")
	ErrInvalidPrice  = errors.New("product price must not be negative")
	ErrInvalidSale   = errors.New("sale percent must be between 0 and 100")
	ErrInvalidEmail  = errors.New("subscriber email must not be empty")
)
