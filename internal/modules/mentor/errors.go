package mentor

import "errors"

var (
	ErrNotFound   = errors.New("mentor not found")
	ErrValidation = errors.New("validation error")
)
