package loadgen

import "errors"

var (
	// ErrUnhealthy is returned when the service health check fails.
	ErrUnhealthy = errors.New("service unhealthy")

	// ErrInconsistent is returned when responses break ordering or ranking rules.
	ErrInconsistent = errors.New("inconsistent response")
)
