package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	service "github.com/okian/vocafit/internal/app"
	"github.com/okian/vocafit/internal/config"
	"github.com/okian/vocafit/internal/domain/types"
	"github.com/okian/vocafit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// execute runs the root command in-process with fresh flag values.
func execute(stdin string, args ...string) (string, error) {
	scoreFile, scoreTopN, scoreExplain = "", 0, false
	careersNamesOnly = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

const realistJSON = `{
	"id": "cli-1",
	"riasec": {"R": 25, "I": 10, "A": 5, "S": 5, "E": 5, "C": 5},
	"gardner": {},
	"gopc": {}
}`

func TestCareersCommand(t *testing.T) {
	Convey("Given the careers command", t, func() {
		Convey("When names are requested", func() {
			out, err := execute("", "careers", "--names")

			Convey("Then the catalog names are printed as JSON", func() {
				So(err, ShouldBeNil)
				var names []string
				So(json.Unmarshal([]byte(out), &names), ShouldBeNil)
				So(names, ShouldContain, "Engenheiro")
			})
		})

		Convey("When one career is requested", func() {
			out, err := execute("", "careers", "Engenheiro")

			Convey("Then its weights are printed", func() {
				So(err, ShouldBeNil)
				var c types.Career
				So(json.Unmarshal([]byte(out), &c), ShouldBeNil)
				So(c.Name, ShouldEqual, "Engenheiro")
				So(c.Weights["riasec"], ShouldNotBeEmpty)
			})
		})

		Convey("When an unknown career is requested", func() {
			_, err := execute("", "careers", "Astronauta Lunar")

			Convey("Then the lookup fails", func() {
				So(errors.Is(err, service.ErrCareerNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestScoreCommand(t *testing.T) {
	Convey("Given a submission file", t, func() {
		path := filepath.Join(t.TempDir(), "sub.json")
		So(os.WriteFile(path, []byte(realistJSON), 0o600), ShouldBeNil)

		Convey("When it is scored with --top 3", func() {
			out, err := execute("", "score", "--file", path, "--top", "3")

			Convey("Then three ranked matches are printed", func() {
				So(err, ShouldBeNil)
				var a types.Assessment
				So(json.Unmarshal([]byte(out), &a), ShouldBeNil)
				So(a.ID, ShouldEqual, "cli-1")
				So(len(a.Matches), ShouldEqual, 3)
				for i, m := range a.Matches {
					So(m.Rank, ShouldEqual, i+1)
					So(m.Breakdown, ShouldBeNil)
				}
			})
		})

		Convey("When it is read from stdin with --explain", func() {
			out, err := execute(realistJSON, "score", "--file", "-", "--explain")

			Convey("Then the default number of matches carry breakdowns", func() {
				So(err, ShouldBeNil)
				var a types.Assessment
				So(json.Unmarshal([]byte(out), &a), ShouldBeNil)
				So(len(a.Matches), ShouldEqual, 6)
				So(a.Matches[0].Breakdown, ShouldNotBeNil)
			})
		})
	})

	Convey("Given invalid input", t, func() {
		Convey("Then an unknown category is rejected", func() {
			_, err := execute(`{"riasec": {"X": 10}}`, "score", "--file", "-")
			So(err, ShouldNotBeNil)
		})

		Convey("Then an unknown field is rejected", func() {
			_, err := execute(`{"riasec": {}, "extra": 1}`, "score", "--file", "-")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to parse submission")
		})

		Convey("Then a missing file is reported", func() {
			_, err := execute("", "score", "--file", filepath.Join(t.TempDir(), "nope.json"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to open submission file")
		})
	})
}

func TestConfigurationErrors(t *testing.T) {
	Convey("Given an invalid theta in the environment", t, func() {
		t.Setenv("VOCAFIT_THETA", "2")

		Convey("Then every command refuses to run", func() {
			_, err := execute("", "careers", "--names")
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestServeWiring(t *testing.T) {
	Convey("Given a started service and the serve mux", t, func() {
		So(logger.Init(), ShouldBeNil)
		cfg = config.New(context.Background())
		svc := service.New(serviceOptions(cfg)...)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := newMux(context.Background(), svc)

		Convey("Then health, docs and API routes answer", func() {
			for _, path := range []string{"/healthz", "/api-docs", "/openapi.yaml", "/careers", "/instruments", "/stats"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				So(w.Code, ShouldEqual, http.StatusOK)
			}
		})

		Convey("And the metrics updaters run without panicking", func() {
			So(updateSystemMetrics, ShouldNotPanic)
			So(func() { updateServiceMetrics(svc) }, ShouldNotPanic)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			So(func() { startSystemMetricsUpdater(ctx) }, ShouldNotPanic)
			So(func() { startServiceMetricsUpdater(ctx, svc) }, ShouldNotPanic)
		})
	})
}
