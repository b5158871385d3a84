package match

import "errors"

var (
	ErrValidation = errors.New("invalid match input")
	ErrNotFound   = errors.New("match not found")
)
