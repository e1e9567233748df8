// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/vocafit/internal/app"
	"github.com/okian/vocafit/internal/domain/instrument"
	"github.com/okian/vocafit/internal/domain/model"
	"github.com/okian/vocafit/internal/domain/types"
	"github.com/okian/vocafit/pkg/metrics"
)

// Request body limits.
const (
	maxSingleBodyBytes = 1 << 20
	maxBatchBodyBytes  = 16 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AssessmentDependencies
	CatalogDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	assessmentsHandler *AssessmentsHandler
	careersHandler     *CareersHandler
	instrumentsHandler *InstrumentsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		assessmentsHandler: NewAssessmentsHandler(deps),
		careersHandler:     NewCareersHandler(deps),
		instrumentsHandler: NewInstrumentsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/assessments", MetricsMiddleware(s.assessmentsHandler.HandlePostAssessment, "assessments"))
	mux.HandleFunc("/assessments/batch", MetricsMiddleware(s.assessmentsHandler.HandlePostBatch, "assessments_batch"))
	mux.HandleFunc("/careers", MetricsMiddleware(s.careersHandler.HandleListCareers, "careers"))
	mux.HandleFunc("/careers/", MetricsMiddleware(s.careersHandler.HandleGetCareer, "career"))
	mux.HandleFunc("/instruments", MetricsMiddleware(s.instrumentsHandler.HandleListInstruments, "instruments"))
}

//nolint:gochecknoglobals // validator caches struct metadata; one instance is shared
var validate = validator.New()

// submissionRequest is the wire shape of one respondent's raw scores.
type submissionRequest struct {
	ID      string         `json:"id" validate:"omitempty,max=128"`
	RIASEC  map[string]int `json:"riasec" validate:"omitempty,dive,keys,required,endkeys"`
	Gardner map[string]int `json:"gardner" validate:"omitempty,dive,keys,required,endkeys"`
	GOPC    map[string]int `json:"gopc" validate:"omitempty,dive,keys,required,endkeys"`
	TS      string         `json:"ts" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// toSubmission converts the request into the domain model. Category names
// are passed through as-is; the service rejects unknown ones.
func (r submissionRequest) toSubmission() model.Submission {
	sub := model.Submission{
		ID:      r.ID,
		RIASEC:  toRaw(r.RIASEC),
		Gardner: toRaw(r.Gardner),
		GOPC:    toRaw(r.GOPC),
		TS:      time.Now().UTC(),
	}
	if r.TS != "" {
		if ts, err := time.Parse(time.RFC3339, r.TS); err == nil {
			sub.TS = ts
		}
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

// assessmentRequest mirrors POST /assessments.
type assessmentRequest struct {
	submissionRequest
	N       int  `json:"n"`
	Explain bool `json:"explain"`
}

// batchRequest mirrors POST /assessments/batch.
type batchRequest struct {
	Submissions []submissionRequest `json:"submissions" validate:"required,min=1,dive"`
	N           int                 `json:"n"`
	Explain     bool                `json:"explain"`
}

type batchResponse struct {
	Results []types.BatchResult `json:"results"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decode reads a JSON body into v and validates it.
func decode(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validate body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps a service error to an API kind, status and code.
func classify(err error) (error, int, string) {
	switch {
	case errors.Is(err, instrument.ErrUnknownCategory), errors.Is(err, instrument.ErrScoreOutOfRange):
		return ErrInvalidSubmission, http.StatusUnprocessableEntity, "invalid_submission"
	case errors.Is(err, service.ErrInvalidTopN), errors.Is(err, service.ErrEmptyBatch), errors.Is(err, service.ErrBatchTooLarge):
		return ErrBadRequest, http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrCareerNotFound):
		return ErrNotFound, http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNotStarted):
		return ErrUnavailable, http.StatusServiceUnavailable, "unavailable"
	default:
		return ErrInternal, http.StatusInternalServerError, "internal_error"
	}
}

// writeServiceError classifies err and writes it.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	kind, status, code := classify(err)
	writeError(w, status, code, WrapKind(op, kind, err))
}
