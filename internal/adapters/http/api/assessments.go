package api

import (
	"context"
	"net/http"

	"github.com/okian/vocafit/internal/domain/model"
	"github.com/okian/vocafit/internal/domain/types"
)

// AssessmentDependencies defines the scoring operations the handlers need.
type AssessmentDependencies interface {
	Assess(ctx context.Context, sub model.Submission, n int, explain bool) (types.Assessment, error)
	AssessBatch(ctx context.Context, subs []model.Submission, n int, explain bool) ([]types.BatchResult, error)
}

// AssessmentsHandler handles assessment requests.
type AssessmentsHandler struct {
	deps AssessmentDependencies
}

// NewAssessmentsHandler creates a new assessments handler.
func NewAssessmentsHandler(deps AssessmentDependencies) *AssessmentsHandler {
	return &AssessmentsHandler{deps: deps}
}

// HandlePostAssessment handles POST /assessments requests.
func (h *AssessmentsHandler) HandlePostAssessment(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_assessment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req assessmentRequest
	if err := decode(w, r, maxSingleBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	a, err := h.deps.Assess(r.Context(), req.toSubmission(), req.N, req.Explain)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandlePostBatch handles POST /assessments/batch requests.
func (h *AssessmentsHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_assessment_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := decode(w, r, maxBatchBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	subs := make([]model.Submission, len(req.Submissions))
	for i := range req.Submissions {
		subs[i] = req.Submissions[i].toSubmission()
	}
	results, err := h.deps.AssessBatch(r.Context(), subs, req.N, req.Explain)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}
