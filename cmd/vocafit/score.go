package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/vocafit/internal/app"
	"github.com/okian/vocafit/internal/domain/instrument"
	"github.com/okian/vocafit/internal/domain/model"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one submission file and print the top careers as JSON",
	Long:  "Read a submission JSON document ({\"id\", \"riasec\", \"gardner\", \"gopc\"}) from --file, or stdin with --file -, and print its ranked career matches.",
	RunE:  runScore,
}

var (
	scoreFile    string
	scoreTopN    int
	scoreExplain bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "Path to the submission JSON file, or - for stdin (required)")
	scoreCmd.Flags().IntVarP(&scoreTopN, "top", "n", 0, "Number of careers to return (default from config)")
	scoreCmd.Flags().BoolVar(&scoreExplain, "explain", false, "Include the per-match score breakdown")
	_ = scoreCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(scoreCmd)
}

// submissionFile is the on-disk shape of a submission.
type submissionFile struct {
	ID      string         `json:"id"`
	RIASEC  map[string]int `json:"riasec"`
	Gardner map[string]int `json:"gardner"`
	GOPC    map[string]int `json:"gopc"`
	TS      *time.Time     `json:"ts"`
}

func (f submissionFile) toSubmission() model.Submission {
	sub := model.Submission{
		ID:      f.ID,
		RIASEC:  toRaw(f.RIASEC),
		Gardner: toRaw(f.Gardner),
		GOPC:    toRaw(f.GOPC),
		TS:      time.Now().UTC(),
	}
	if f.TS != nil {
		sub.TS = *f.TS
	}
	return sub
}

func toRaw(m map[string]int) instrument.RawScores {
	raw := make(instrument.RawScores, len(m))
	for k, v := range m {
		raw[instrument.Category(k)] = v
	}
	return raw
}

func runScore(cmd *cobra.Command, _ []string) error {
	sub, err := readSubmission(cmd.InOrStdin(), scoreFile)
	if err != nil {
		return err
	}

	// One-shot scoring needs neither the memo nor a wide pool.
	opts := append(serviceOptions(cfg), service.WithDedupeSize(0), service.WithWorkerCount(1))
	svc := service.New(opts...)
	if err := svc.Start(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	assessment, err := svc.Assess(cmd.Context(), sub, scoreTopN, scoreExplain)
	if err != nil {
		return fmt.Errorf("score %s: %w", scoreFile, err)
	}
	return printJSON(cmd.OutOrStdout(), assessment)
}

// readSubmission decodes a submission from path, or from stdin when path
// is "-".
func readSubmission(stdin io.Reader, path string) (model.Submission, error) {
	var r io.Reader
	switch path {
	case "":
		return model.Submission{}, errors.New("--file is required")
	case "-":
		r = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return model.Submission{}, fmt.Errorf("failed to open submission file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var doc submissionFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return model.Submission{}, fmt.Errorf("failed to parse submission: %w", err)
	}
	return doc.toSubmission(), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
