package loadgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/vocafit/internal/domain/types"
	"github.com/okian/vocafit/pkg/logger"
)

// Run executes a complete simulation: health check, generation, concurrent
// batch submission with per-batch verification, and a repeat of the first
// batch to confirm results are stable.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	config = withDefaults(config)
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("loadgen")

	log.Info(ctx, "starting vocafit simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("submissions", config.NumSubmissions),
		logger.Int("batchSize", config.BatchSize),
		logger.Int("workers", config.Workers),
		logger.Int("topN", config.TopN),
		logger.Float64("rate", config.Rate),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config.BaseURL); err != nil {
		return stats, err
	}

	// Step 2: Generate submissions
	subs := NewGenerator(config.Seed).Generate(config.NumSubmissions)
	stats.Generated = len(subs)
	if len(subs) == 0 {
		return stats, nil
	}

	// Step 3: Submit batches concurrently
	batches := chunk(subs, config.BatchSize)
	first, err := submitBatches(ctx, client, config, batches, stats)
	if err != nil {
		return stats, err
	}

	// Step 4: Resend the first batch and compare
	if first != nil {
		again, err := postBatch(ctx, client, config, batches[0])
		if err != nil {
			return stats, fmt.Errorf("repeat batch: %w", err)
		}
		if err := verifyRepeat(first, again); err != nil {
			stats.Violations++
			return stats, err
		}
	}

	// Step 5: Save submissions to file
	if config.OutputFile != "" {
		if err := saveSubmissions(config.OutputFile, subs); err != nil {
			log.Warn(ctx, "failed to save submissions to file", logger.Error(err))
		} else {
			log.Info(ctx, "submissions saved to file", logger.String("filename", config.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.Violations > 0 {
		return stats, fmt.Errorf("%w: %d batches failed verification", ErrInconsistent, stats.Violations)
	}
	return stats, nil
}

func withDefaults(c *Config) *Config {
	out := *c
	if out.BatchSize < 1 {
		out.BatchSize = 1
	}
	if out.Workers < 1 {
		out.Workers = 1
	}
	if out.TopN < 1 {
		out.TopN = 1
	}
	if out.Timeout <= 0 {
		out.Timeout = 30 * time.Second
	}
	return &out
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	resp, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	body, _ := readResponseBody(resp)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrUnhealthy, resp.StatusCode, string(body))
	}
	return nil
}

func chunk(subs []Submission, size int) [][]Submission {
	out := make([][]Submission, 0, (len(subs)+size-1)/size)
	for start := 0; start < len(subs); start += size {
		end := min(start+size, len(subs))
		out = append(out, subs[start:end])
	}
	return out
}

// submitBatches sends every batch through a fixed set of workers and
// returns the results of batch 0 for the repeat check.
func submitBatches(ctx context.Context, client *HTTPClient, config *Config, batches [][]Submission, stats *Stats) ([]types.BatchResult, error) {
	log := logger.Get().Named("loadgen")

	var (
		failed     atomic.Int64
		violations atomic.Int64
		scored     atomic.Int64
		rejected   atomic.Int64
		first      []types.BatchResult
	)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.Rate), 1)
	}

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				results, err := postBatch(ctx, client, config, batches[idx])
				if err != nil {
					failed.Add(1)
					if config.Verbose {
						log.Warn(ctx, "batch failed", logger.Int("batch", idx), logger.Error(err))
					}
					continue
				}
				if err := verifyBatch(batches[idx], results, config.TopN); err != nil {
					violations.Add(1)
					log.Error(ctx, "batch failed verification", logger.Int("batch", idx), logger.Error(err))
					continue
				}
				for _, r := range results {
					if r.Error != "" {
						rejected.Add(1)
					} else {
						scored.Add(1)
					}
				}
				if idx == 0 {
					first = results
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.Batches = len(batches)
	stats.BatchFailed = int(failed.Load())
	stats.Violations = int(violations.Load())
	stats.Scored = int(scored.Load())
	stats.Rejected = int(rejected.Load())

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled during submission: %w", err)
	}
	if stats.BatchFailed == len(batches) {
		return nil, errors.New("every batch request failed")
	}
	return first, nil
}

func postBatch(ctx context.Context, client *HTTPClient, config *Config, batch []Submission) ([]types.BatchResult, error) {
	resp, err := client.Post(ctx, config.BaseURL+"/assessments/batch", batchRequest{Submissions: batch, N: config.TopN})
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	var out batchResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// saveSubmissions writes the generated submissions as a JSON array.
func saveSubmissions(filename string, subs []Submission) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, perSecond float64
	if stats.Generated > 0 {
		successRate = float64(stats.Scored) / float64(stats.Generated) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Scored) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("batches", stats.Batches),
		logger.Int("batchesFailed", stats.BatchFailed),
		logger.Int("scored", stats.Scored),
		logger.Int("rejected", stats.Rejected),
		logger.Int("violations", stats.Violations),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("assessmentsPerSecond", perSecond))
}
