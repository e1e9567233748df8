package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/vocafit/internal/adapters/http/api"
	service "github.com/okian/vocafit/internal/app"
	"github.com/okian/vocafit/internal/domain/instrument"
	"github.com/okian/vocafit/internal/domain/model"
	"github.com/okian/vocafit/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies records what the handlers pass through and returns
// canned answers.
type mockDependencies struct {
	assessErr error
	batchErr  error
	lastSub   model.Submission
	lastSubs  []model.Submission
	lastN     int
	explain   bool
	careers   []types.Career
}

func (m *mockDependencies) Assess(_ context.Context, sub model.Submission, n int, explain bool) (types.Assessment, error) {
	m.lastSub, m.lastN, m.explain = sub, n, explain
	if m.assessErr != nil {
		return types.Assessment{}, m.assessErr
	}
	return types.Assessment{ID: sub.ID, Matches: []types.Match{{Rank: 1, Career: "Engenheiro", Score: 0.4}}}, nil
}

func (m *mockDependencies) AssessBatch(_ context.Context, subs []model.Submission, n int, explain bool) ([]types.BatchResult, error) {
	m.lastSubs, m.lastN, m.explain = subs, n, explain
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([]types.BatchResult, len(subs))
	for i, s := range subs {
		out[i] = types.BatchResult{ID: s.ID, Matches: []types.Match{{Rank: 1, Career: "Mecânico", Score: 0.3}}}
	}
	return out, nil
}

func (m *mockDependencies) Careers(context.Context) ([]types.Career, error) {
	return m.careers, nil
}

func (m *mockDependencies) Career(_ context.Context, name string) (types.Career, error) {
	for _, c := range m.careers {
		if c.Name == name {
			return c, nil
		}
	}
	return types.Career{}, fmt.Errorf("%w: %q", service.ErrCareerNotFound, name)
}

func (m *mockDependencies) Instruments(context.Context) ([]types.Instrument, error) {
	return []types.Instrument{{Name: "riasec", Categories: []string{"R"}, ItemCounts: map[string]int{"R": 5}}}, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then the health endpoint reports ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then the stats endpoint is accessible", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then the metrics endpoint exposes the private registry", func() {
			_ = do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "vocafit_scoring_http_requests_total")
		})

		Convey("Then wrong methods are not found", func() {
			So(do(mux, http.MethodGet, "/assessments", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/careers", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodDelete, "/stats", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAssessmentsHandler(t *testing.T) {
	Convey("Given the assessments endpoint", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When a valid submission is posted", func() {
			body := `{"id":"s1","riasec":{"R":25,"I":10},"gopc":{"PC":9},"n":3,"explain":true,"ts":"2024-03-01T10:00:00Z"}`
			w := do(mux, http.MethodPost, "/assessments", body)

			Convey("Then the submission reaches the service intact", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastSub.ID, ShouldEqual, "s1")
				So(deps.lastSub.RIASEC[instrument.Realistic], ShouldEqual, 25)
				So(deps.lastSub.GOPC[instrument.Planning], ShouldEqual, 9)
				So(deps.lastSub.TS.Year(), ShouldEqual, 2024)
				So(deps.lastN, ShouldEqual, 3)
				So(deps.explain, ShouldBeTrue)

				var a types.Assessment
				So(json.Unmarshal(w.Body.Bytes(), &a), ShouldBeNil)
				So(a.ID, ShouldEqual, "s1")
				So(a.Matches[0].Career, ShouldEqual, "Engenheiro")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/assessments", "{")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
				So(decodeError(w)["message"], ShouldStartWith, "api.post_assessment: bad request")
			})
		})

		Convey("When the body has an unknown instrument", func() {
			w := do(mux, http.MethodPost, "/assessments", `{"mbti":{"E":3}}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the timestamp is malformed", func() {
			w := do(mux, http.MethodPost, "/assessments", `{"riasec":{"R":20},"ts":"yesterday"}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the service rejects a category", func() {
			deps.assessErr = fmt.Errorf("gopc: %w", instrument.ErrUnknownCategory)
			w := do(mux, http.MethodPost, "/assessments", `{"gopc":{"XX":9}}`)

			Convey("Then it is unprocessable", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w)["code"], ShouldEqual, "invalid_submission")
			})
		})

		Convey("When the service rejects a score range", func() {
			deps.assessErr = instrument.ErrScoreOutOfRange
			w := do(mux, http.MethodPost, "/assessments", `{"riasec":{"R":99}}`)

			Convey("Then it is unprocessable", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			})
		})

		Convey("When n is above the cap", func() {
			deps.assessErr = service.ErrInvalidTopN
			w := do(mux, http.MethodPost, "/assessments", `{"n":500}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the service is not running", func() {
			deps.assessErr = service.ErrNotStarted
			w := do(mux, http.MethodPost, "/assessments", `{}`)

			Convey("Then it is unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.assessErr = errors.New("boom")
			w := do(mux, http.MethodPost, "/assessments", `{}`)

			Convey("Then it is an internal error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["code"], ShouldEqual, "internal_error")
			})
		})
	})

	Convey("Given the batch endpoint", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When a batch is posted", func() {
			body := `{"submissions":[{"id":"a","riasec":{"R":20}},{"id":"b"}],"n":2}`
			w := do(mux, http.MethodPost, "/assessments/batch", body)

			Convey("Then results come back in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastSubs, ShouldHaveLength, 2)
				So(deps.lastN, ShouldEqual, 2)

				var resp struct {
					Results []types.BatchResult `json:"results"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Results[0].ID, ShouldEqual, "a")
				So(resp.Results[1].ID, ShouldEqual, "b")
			})
		})

		Convey("When the batch is empty", func() {
			w := do(mux, http.MethodPost, "/assessments/batch", `{"submissions":[]}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the batch is too large", func() {
			deps.batchErr = service.ErrBatchTooLarge
			w := do(mux, http.MethodPost, "/assessments/batch", `{"submissions":[{}]}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestCareersHandler(t *testing.T) {
	Convey("Given the careers endpoints", t, func() {
		deps := &mockDependencies{careers: []types.Career{
			{Name: "Engenheiro", Weights: map[string]map[string]float64{"riasec": {"R": 1}}},
			{Name: "Técnico em Edificações", Weights: map[string]map[string]float64{"riasec": {"R": 0.7}}},
		}}
		mux := newMux(deps)

		Convey("When listing careers", func() {
			w := do(mux, http.MethodGet, "/careers", "")

			Convey("Then every career is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var careers []types.Career
				So(json.Unmarshal(w.Body.Bytes(), &careers), ShouldBeNil)
				So(careers, ShouldHaveLength, 2)
			})
		})

		Convey("When fetching a career with spaces and accents", func() {
			w := do(mux, http.MethodGet, "/careers/"+url.PathEscape("Técnico em Edificações"), "")

			Convey("Then it is found", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Edificações")
			})
		})

		Convey("When fetching an unknown career", func() {
			w := do(mux, http.MethodGet, "/careers/Astronauta", "")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the name is missing", func() {
			w := do(mux, http.MethodGet, "/careers/", "")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When listing instruments", func() {
			w := do(mux, http.MethodGet, "/instruments", "")

			Convey("Then metadata is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"item_counts":{"R":5}`)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given API error helpers", t, func() {
		cause := errors.New("cause")

		Convey("Then WrapKind exposes both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: cause")
		})

		Convey("Then NewKind and Wrap render what they hold", func() {
			So(api.NewKind("api.op", api.ErrNotFound).Error(), ShouldEqual, "api.op: not found")
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: cause")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}
