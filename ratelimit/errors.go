package ratelimit

import "errors"

var (
	// ErrRedisClientRequired is returned when a nil Redis client is provided.
	ErrRedisClientRequired = errors.New("redis client is required")
)
