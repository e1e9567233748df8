package scoring

import "errors"

// Sentinel error kinds for engine construction.
var (
	ErrNilCatalog        = errors.New("catalog is nil")
	ErrInvalidItemCounts = errors.New("invalid item counts")
	ErrInvalidWeights    = errors.New("invalid instrument weights")
)
