// Package loadgen drives a running vocafit server with generated submissions
// and checks every batch response for ordering and ranking consistency.
package loadgen

import (
	"time"

	"github.com/okian/vocafit/internal/domain/types"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL        string        // Base URL of the service
	NumSubmissions int           // Number of submissions to generate
	BatchSize      int           // Submissions per batch request
	TopN           int           // Matches requested per submission
	Workers        int           // Number of concurrent senders
	Rate           float64       // Batch requests per second across all senders; 0 is unlimited
	Timeout        time.Duration // HTTP request timeout
	Seed           uint64        // Generator seed; runs with equal seeds send equal answers
	OutputFile     string        // Optional file the generated submissions are written to
	Verbose        bool          // Log every failed batch
}

// Submission is the wire shape of one generated respondent.
type Submission struct {
	ID      string         `json:"id"`
	RIASEC  map[string]int `json:"riasec,omitempty"`
	Gardner map[string]int `json:"gardner,omitempty"`
	GOPC    map[string]int `json:"gopc,omitempty"`
	TS      string         `json:"ts,omitempty"`
}

type batchRequest struct {
	Submissions []Submission `json:"submissions"`
	N           int          `json:"n"`
}

type batchResponse struct {
	Results []types.BatchResult `json:"results"`
}

// Stats holds run statistics.
type Stats struct {
	Generated   int
	Batches     int
	BatchFailed int
	Scored      int
	Rejected    int
	Violations  int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
