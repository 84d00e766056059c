package gallery

import "errors"

var (
	// ErrLinkRepositoryRequired is returned when a nil link repository is provided.
	ErrLinkRepositoryRequired = errors.New("link repository is required")
)
