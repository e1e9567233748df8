package instrument

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrMissingItemCount  = errors.New("missing item count")
	ErrScoreOutOfRange   = errors.New("raw score out of range")
)
