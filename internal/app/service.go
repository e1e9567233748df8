// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/vocafit/internal/adapters/mq/queue"
	workerpool "github.com/okian/vocafit/internal/adapters/mq/worker"
	"github.com/okian/vocafit/internal/domain/catalog"
	"github.com/okian/vocafit/internal/domain/dedupe"
	"github.com/okian/vocafit/internal/domain/instrument"
	"github.com/okian/vocafit/internal/domain/model"
	"github.com/okian/vocafit/internal/domain/scoring"
	"github.com/okian/vocafit/internal/domain/types"
	"github.com/okian/vocafit/pkg/logger"
	"github.com/okian/vocafit/pkg/metrics"
)

// Service owns the catalog and scoring engine and serves assessments.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog *catalog.Catalog
	engine  *scoring.Engine
	queue   *queue.InMemoryQueue
	pool    *workerpool.Pool
	memo    dedupe.Memo

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	defaultTopN  int
	maxTopN      int
	maxBatchSize int
	engineOpts   []scoring.Option

	// State
	started   bool
	startedAt time.Time
	assessed  atomic.Int64
	rejected  atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    4096,
		dedupeSize:   10_000,
		defaultTopN:  scoring.DefaultTopN,
		maxTopN:      50,
		maxBatchSize: 500,
		logger:       nil, // replaced when the service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the engine and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting assessment service...")

	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	metrics.RecordCatalogBuild(s.catalog.Len())

	opts := append([]scoring.Option{scoring.WithDefaultTopN(s.defaultTopN)}, s.engineOpts...)
	engine, err := scoring.NewEngine(s.catalog, opts...)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	s.engine = engine

	if s.dedupeSize > 0 {
		s.memo = dedupe.NewInMemoryMemo(dedupe.WithMaxSize(s.dedupeSize))
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.engine)
	// workers live until Stop, not until the startup context ends
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "assessment service started",
		logger.Int("careers", s.catalog.Len()),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("defaultTopN", s.engine.DefaultTopN()),
	)

	return nil
}

// Stop drains the worker pool and marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping assessment service...")

	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "assessment service stopped")
}

// components returns the engine and pool, or ErrNotStarted.
func (s *Service) components() (*scoring.Engine, *workerpool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.engine, s.pool, nil
}

// resolveTopN applies the default for n < 1 and rejects n above the cap.
func (s *Service) resolveTopN(n int) (int, error) {
	if n < 1 {
		return s.defaultTopN, nil
	}
	if n > s.maxTopN {
		return 0, fmt.Errorf("%w: %d exceeds the maximum of %d", ErrInvalidTopN, n, s.maxTopN)
	}
	return n, nil
}

// validate checks every raw vector against its instrument's categories and
// item counts.
func validate(engine *scoring.Engine, sub model.Submission) error {
	raw := sub.Raw()
	for _, inst := range instrument.All {
		if err := instrument.ValidateRawScores(inst, raw[inst], engine.ItemCounts(inst)); err != nil {
			return fmt.Errorf("%s: %w", inst, err)
		}
	}
	return nil
}

// rejectReason labels a validation error for metrics.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, instrument.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, instrument.ErrScoreOutOfRange):
		return "score_out_of_range"
	case errors.Is(err, ErrInvalidTopN):
		return "invalid_top_n"
	case errors.Is(err, ErrBatchTooLarge), errors.Is(err, ErrEmptyBatch):
		return "invalid_batch"
	default:
		return "other"
	}
}

func (s *Service) reject(ctx context.Context, id string, err error) {
	s.rejected.Add(1)
	metrics.RecordAssessmentError(rejectReason(err))
	s.logger.Warn(logger.WithSubmissionID(ctx, id), "submission rejected", logger.Error(err))
}

// prepare validates sub, assigns an id and consults the memo. It returns the
// cached assessment when there is one.
func (s *Service) prepare(ctx context.Context, engine *scoring.Engine, sub *model.Submission, n int, explain bool) (string, *types.Assessment, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if err := validate(engine, *sub); err != nil {
		s.reject(ctx, sub.ID, err)
		return "", nil, err
	}
	if s.memo == nil {
		return "", nil, nil
	}

	key := dedupe.Fingerprint(*sub, n, explain)
	cached, ok := s.memo.Lookup(ctx, key)
	metrics.RecordMemoLookup(ok)
	if !ok {
		return key, nil, nil
	}
	cached.ID = sub.ID
	return key, &cached, nil
}

// remember stores a in the memo under key.
func (s *Service) remember(ctx context.Context, key string, a types.Assessment) {
	if s.memo == nil || key == "" {
		return
	}
	s.memo.Record(ctx, key, a)
	metrics.UpdateMemoEntries(s.memo.Size())
}

// Assess scores one submission and returns its top n careers. n < 1 selects
// the configured default.
func (s *Service) Assess(ctx context.Context, sub model.Submission, n int, explain bool) (types.Assessment, error) {
	start := time.Now()

	engine, _, err := s.components()
	if err != nil {
		return types.Assessment{}, err
	}
	n, err = s.resolveTopN(n)
	if err != nil {
		s.reject(ctx, sub.ID, err)
		return types.Assessment{}, err
	}

	key, cached, err := s.prepare(ctx, engine, &sub, n, explain)
	if err != nil {
		return types.Assessment{}, err
	}
	ctx = logger.WithSubmissionID(ctx, sub.ID)
	if cached != nil {
		s.logger.Debug(ctx, "assessment served from memo")
		return *cached, nil
	}

	res, err := engine.Score(ctx, scoring.Input{SubmissionID: sub.ID, Raw: sub.Raw(), N: n})
	if err != nil {
		return types.Assessment{}, err
	}

	a := toAssessment(res, explain)
	s.remember(ctx, key, a)
	s.record(res, time.Since(start))
	s.logger.Debug(ctx, "assessment scored",
		logger.Int("matches", len(a.Matches)),
		logger.Duration("took", time.Since(start)),
	)
	return a, nil
}

// AssessBatch scores submissions through the worker pool. Results come back
// in input order; an invalid item carries its error and does not fail the
// batch.
func (s *Service) AssessBatch(ctx context.Context, subs []model.Submission, n int, explain bool) ([]types.BatchResult, error) {
	start := time.Now()

	engine, pool, err := s.components()
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		s.reject(ctx, "", ErrEmptyBatch)
		return nil, ErrEmptyBatch
	}
	if len(subs) > s.maxBatchSize {
		err := fmt.Errorf("%w: %d submissions, maximum is %d", ErrBatchTooLarge, len(subs), s.maxBatchSize)
		s.reject(ctx, "", err)
		return nil, err
	}
	n, err = s.resolveTopN(n)
	if err != nil {
		s.reject(ctx, "", err)
		return nil, err
	}
	metrics.RecordBatch(len(subs))

	out := make([]types.BatchResult, len(subs))
	keys := make([]string, len(subs))
	inputs := make([]scoring.Input, 0, len(subs))
	slots := make([]int, 0, len(subs))

	for i := range subs {
		sub := subs[i]
		key, cached, err := s.prepare(ctx, engine, &sub, n, explain)
		out[i].ID = sub.ID
		switch {
		case err != nil:
			out[i].Error = err.Error()
		case cached != nil:
			out[i].Matches = cached.Matches
		default:
			keys[i] = key
			inputs = append(inputs, scoring.Input{SubmissionID: sub.ID, Raw: sub.Raw(), N: n})
			slots = append(slots, i)
		}
	}

	scoreStart := time.Now()
	outcomes, err := pool.ScoreBatch(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("score batch: %w", err)
	}
	var perItem time.Duration
	if len(inputs) > 0 {
		perItem = time.Since(scoreStart) / time.Duration(len(inputs))
	}
	for j, o := range outcomes {
		i := slots[j]
		if o.Err != nil {
			out[i].Error = o.Err.Error()
			continue
		}
		a := toAssessment(o.Result, explain)
		out[i].Matches = a.Matches
		s.remember(ctx, keys[i], a)
		s.record(o.Result, perItem)
	}

	s.logger.Debug(ctx, "batch scored",
		logger.Int("submissions", len(subs)),
		logger.Int("scored", len(inputs)),
		logger.Duration("took", time.Since(start)),
	)
	return out, nil
}

// record updates counters for one scored result. Batch items report the
// batch's mean latency.
func (s *Service) record(res scoring.Result, took time.Duration) {
	s.assessed.Add(1)
	top := 0.0
	if len(res.Matches) > 0 {
		top = res.Matches[0].Score
	}
	metrics.RecordAssessment(float64(took.Microseconds())/1000, top, len(res.Matches) > 0)
}

// Careers lists every catalog archetype in collation order.
func (s *Service) Careers(_ context.Context) ([]types.Career, error) {
	engine, _, err := s.components()
	if err != nil {
		return nil, err
	}
	archetypes := engine.Catalog().Archetypes()
	out := make([]types.Career, len(archetypes))
	for i, a := range archetypes {
		out[i] = toCareer(a)
	}
	return out, nil
}

// Career returns one archetype by exact name.
func (s *Service) Career(_ context.Context, name string) (types.Career, error) {
	engine, _, err := s.components()
	if err != nil {
		return types.Career{}, err
	}
	a, ok := engine.Catalog().Get(name)
	if !ok {
		return types.Career{}, fmt.Errorf("%w: %q", ErrCareerNotFound, name)
	}
	return toCareer(a), nil
}

// Instruments describes the three questionnaires with the item counts in use.
func (s *Service) Instruments(_ context.Context) ([]types.Instrument, error) {
	engine, _, err := s.components()
	if err != nil {
		return nil, err
	}
	out := make([]types.Instrument, 0, instrument.Count)
	for _, inst := range instrument.All {
		counts := engine.ItemCounts(inst)
		cats := inst.Categories()
		info := types.Instrument{
			Name:       inst.String(),
			Categories: make([]string, len(cats)),
			ItemCounts: make(map[string]int, len(cats)),
		}
		for i, c := range cats {
			info.Categories[i] = string(c)
			info.ItemCounts[string(c)] = counts.Items(c)
		}
		out = append(out, info)
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"maxTopN":      s.maxTopN,
		"maxBatchSize": s.maxBatchSize,
		"assessed":     s.assessed.Load(),
		"rejected":     s.rejected.Load(),
	}

	if s.started {
		ctx := context.Background()
		stats["defaultTopN"] = s.engine.DefaultTopN()
		stats["careers"] = s.catalog.Len()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["processedByWorkers"] = s.pool.Processed()
		stats["scoredInline"] = s.pool.Inline()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		if s.memo != nil {
			stats["memoEntries"] = s.memo.Size()
			stats["memoHits"] = s.memo.Hits()
		}
	}

	return stats
}

func toAssessment(res scoring.Result, explain bool) types.Assessment {
	a := types.Assessment{ID: res.SubmissionID, Matches: make([]types.Match, len(res.Matches))}
	for i, m := range res.Matches {
		a.Matches[i] = types.Match{Rank: i + 1, Career: m.Career, Score: m.Score}
		if !explain {
			continue
		}
		contrib := make(map[string]float64, instrument.Count)
		for _, inst := range instrument.All {
			contrib[inst.String()] = m.Breakdown.Contributions[inst]
		}
		a.Matches[i].Breakdown = &types.Explanation{
			Contributions:  contrib,
			Norm:           m.Breakdown.Norm,
			HighDimensions: m.Breakdown.HighDimensions,
			Dimensions:     m.Breakdown.Dimensions,
		}
	}
	return a
}

func toCareer(a catalog.Archetype) types.Career {
	c := types.Career{Name: a.Career, Weights: make(map[string]map[string]float64, instrument.Count)}
	for _, inst := range instrument.All {
		w := a.Weights.Of(inst)
		if len(w) == 0 {
			continue
		}
		m := make(map[string]float64, len(w))
		for cat, v := range w {
			m[string(cat)] = v
		}
		c.Weights[inst.String()] = m
	}
	return c
}
