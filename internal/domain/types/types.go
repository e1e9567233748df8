// Package types contains common types used across the application
package types

// Match is one ranked career as returned by the API.
type Match struct {
	Rank      int          `json:"rank"`
	Career    string       `json:"career"`
	Score     float64      `json:"score"`
	Breakdown *Explanation `json:"breakdown,omitempty"`
}

// Explanation details how a score was reached.
type Explanation struct {
	Contributions  map[string]float64 `json:"contributions"`
	Norm           float64            `json:"norm"`
	HighDimensions int                `json:"high_dimensions"`
	Dimensions     int                `json:"dimensions"`
}

// Assessment is the scored result of one submission.
type Assessment struct {
	ID      string  `json:"id"`
	Matches []Match `json:"matches"`
}

// Career describes a catalog archetype.
type Career struct {
	Name    string                        `json:"name"`
	Weights map[string]map[string]float64 `json:"weights"`
}

// Instrument describes one questionnaire and its item counts.
type Instrument struct {
	Name       string         `json:"name"`
	Categories []string       `json:"categories"`
	ItemCounts map[string]int `json:"item_counts"`
}

// BatchResult is one item of a batch response. Exactly one of Matches and
// Error is set.
type BatchResult struct {
	ID      string  `json:"id"`
	Matches []Match `json:"matches,omitempty"`
	Error   string  `json:"error,omitempty"`
}
