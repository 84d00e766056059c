package genie

import "errors"

var (
	// ErrIndexRequired is returned when a nil index is provided.
	ErrIndexRequired = errors.New("index is required")

	// ErrGeneratorRequired is returned when a nil generator is provided.
	ErrGeneratorRequired = errors.New("generator is required")
)
