package service

import "errors"

// Sentinel error kinds returned by the service. Validation failures from the
// instrument package (unknown category, score out of range) are wrapped and
// pass through unchanged for errors.Is.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrInvalidTopN    = errors.New("invalid number of careers")
	ErrEmptyBatch     = errors.New("batch is empty")
	ErrBatchTooLarge  = errors.New("batch too large")
	ErrCareerNotFound = errors.New("career not found")
)
