package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/vocafit/internal/domain/types"
)

// CatalogDependencies defines the read-only catalog queries.
type CatalogDependencies interface {
	Careers(ctx context.Context) ([]types.Career, error)
	Career(ctx context.Context, name string) (types.Career, error)
	Instruments(ctx context.Context) ([]types.Instrument, error)
}

// CareersHandler handles career catalog requests.
type CareersHandler struct {
	deps CatalogDependencies
}

// NewCareersHandler creates a new careers handler.
func NewCareersHandler(deps CatalogDependencies) *CareersHandler {
	return &CareersHandler{deps: deps}
}

// HandleListCareers handles GET /careers requests.
func (h *CareersHandler) HandleListCareers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_careers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	careers, err := h.deps.Careers(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, careers)
}

// HandleGetCareer handles GET /careers/{name} requests. The name is matched
// exactly, accents and case included.
func (h *CareersHandler) HandleGetCareer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_career"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/careers/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	career, err := h.deps.Career(r.Context(), name)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, career)
}

// InstrumentsHandler handles instrument metadata requests.
type InstrumentsHandler struct {
	deps CatalogDependencies
}

// NewInstrumentsHandler creates a new instruments handler.
func NewInstrumentsHandler(deps CatalogDependencies) *InstrumentsHandler {
	return &InstrumentsHandler{deps: deps}
}

// HandleListInstruments handles GET /instruments requests.
func (h *InstrumentsHandler) HandleListInstruments(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_instruments"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	insts, err := h.deps.Instruments(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, insts)
}
