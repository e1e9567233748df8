// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/vocafit/internal/domain/instrument"
)

// Submission is one respondent's summed answers for the three instruments.
type Submission struct {
	ID      string               // unique id, generated when absent
	RIASEC  instrument.RawScores // Holland interests
	Gardner instrument.RawScores // multiple intelligences
	GOPC    instrument.RawScores // career-guidance competencies
	TS      time.Time            // when the quiz was completed
}

// Raw returns the three raw vectors indexed by instrument.
func (s Submission) Raw() [instrument.Count]instrument.RawScores {
	var raw [instrument.Count]instrument.RawScores
	raw[instrument.RIASEC] = s.RIASEC
	raw[instrument.Gardner] = s.Gardner
	raw[instrument.GOPC] = s.GOPC
	return raw
}

// Scores returns the raw vector of inst.
func (s Submission) Scores(inst instrument.Instrument) instrument.RawScores {
	if !inst.Valid() {
		return nil
	}
	return s.Raw()[inst]
}
