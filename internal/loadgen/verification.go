package loadgen

import (
	"fmt"
	"math"
	"reflect"

	"github.com/okian/vocafit/internal/domain/types"
)

// verifyBatch checks one batch response against the submissions that were
// sent: one result per submission in input order, and for every scored
// result between 1 and n matches ranked 1..k with distinct careers.
func verifyBatch(sent []Submission, results []types.BatchResult, n int) error {
	if len(results) != len(sent) {
		return fmt.Errorf("%w: %d results for %d submissions", ErrInconsistent, len(results), len(sent))
	}
	for i, r := range results {
		if r.ID != sent[i].ID {
			return fmt.Errorf("%w: result %d has id %q, want %q", ErrInconsistent, i, r.ID, sent[i].ID)
		}
		if r.Error != "" {
			continue
		}
		if err := verifyMatches(r.Matches, n); err != nil {
			return fmt.Errorf("%s: %w", r.ID, err)
		}
	}
	return nil
}

func verifyMatches(matches []types.Match, n int) error {
	if len(matches) == 0 || len(matches) > n {
		return fmt.Errorf("%w: %d matches for n=%d", ErrInconsistent, len(matches), n)
	}
	seen := make(map[string]struct{}, len(matches))
	for i, m := range matches {
		if m.Rank != i+1 {
			return fmt.Errorf("%w: match %d has rank %d", ErrInconsistent, i, m.Rank)
		}
		if math.IsNaN(m.Score) || math.IsInf(m.Score, 0) {
			return fmt.Errorf("%w: %s scored %v", ErrInconsistent, m.Career, m.Score)
		}
		if _, dup := seen[m.Career]; dup {
			return fmt.Errorf("%w: %s listed twice", ErrInconsistent, m.Career)
		}
		seen[m.Career] = struct{}{}
	}
	return nil
}

// verifyRepeat checks that scoring the same answers twice gave identical
// matches. Ids differ between the runs and are ignored.
func verifyRepeat(first, second []types.BatchResult) error {
	if len(first) != len(second) {
		return fmt.Errorf("%w: repeat returned %d results, want %d", ErrInconsistent, len(second), len(first))
	}
	for i := range first {
		if first[i].Error != second[i].Error || !reflect.DeepEqual(first[i].Matches, second[i].Matches) {
			return fmt.Errorf("%w: result %d changed between identical requests", ErrInconsistent, i)
		}
	}
	return nil
}
