package practice

import "errors"

var (
	// ErrNotFound is returned when the user or verb of a request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned when a request fails validation. No store call is made.
	ErrInvalidArgument = errors.New("invalid argument")
)
