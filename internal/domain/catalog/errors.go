package catalog

import "errors"

// Sentinel error kinds for catalog construction. All of them describe
// data-integrity problems in the curated lists.
var (
	ErrDuplicateAssignment = errors.New("duplicate career assignment")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrEmptyCareer         = errors.New("empty career name")
)
