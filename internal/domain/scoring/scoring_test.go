package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/vocafit/internal/domain/catalog"
	"github.com/okian/vocafit/internal/domain/instrument"
	scoring "github.com/okian/vocafit/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const eps = 1e-9

func TestNormalize(t *testing.T) {
	Convey("Given RIASEC item counts", t, func() {
		counts := instrument.DefaultItemCounts(instrument.RIASEC)

		Convey("When every answer is the minimum", func() {
			out := scoring.Normalize(instrument.RawScores{instrument.Realistic: 5, instrument.Enterprising: 3}, counts)

			Convey("Then the score is exactly zero", func() {
				So(out[instrument.Realistic], ShouldEqual, 0)
				So(out[instrument.Enterprising], ShouldEqual, 0)
			})
		})

		Convey("When every answer is the maximum", func() {
			out := scoring.Normalize(instrument.RawScores{instrument.Realistic: 25, instrument.Artistic: 20}, counts)

			Convey("Then p is one and the score is sqrt(nItems)", func() {
				So(out[instrument.Realistic]/math.Sqrt(5), ShouldEqual, 1)
				So(out[instrument.Artistic], ShouldEqual, 2)
			})
		})

		Convey("When a category has no item count", func() {
			out := scoring.Normalize(instrument.RawScores{"X": 3}, counts)

			Convey("Then it is treated as a single item", func() {
				So(out["X"], ShouldAlmostEqual, 0.5, eps)
			})
		})

		Convey("Then the input is left untouched", func() {
			raw := instrument.RawScores{instrument.Investigative: 10}
			_ = scoring.Normalize(raw, counts)
			So(raw, ShouldResemble, instrument.RawScores{instrument.Investigative: 10})
		})

		Convey("When using a custom answer scale", func() {
			out := scoring.NormalizeScale(instrument.RawScores{instrument.Realistic: 15}, counts, 0, 3)
			So(out[instrument.Realistic], ShouldAlmostEqual, math.Sqrt(5), eps)
		})
	})
}

func TestEnhance(t *testing.T) {
	Convey("Given RIASEC item counts", t, func() {
		counts := instrument.DefaultItemCounts(instrument.RIASEC)
		maxPossible := math.Sqrt(5)

		Convey("When a score sits at or below theta", func() {
			out := scoring.Enhance(instrument.Vector{"a": 0.5, "b": 0.5 * maxPossible}, counts, scoring.DefaultTheta, scoring.DefaultGamma)

			Convey("Then it is damped", func() {
				So(out["a"], ShouldAlmostEqual, 0.15, eps)
				So(out["b"], ShouldAlmostEqual, 0.15*maxPossible, eps)
			})
		})

		Convey("When a score is above theta", func() {
			out := scoring.Enhance(instrument.Vector{"top": maxPossible, "mid": 0.75 * maxPossible, "over": 10}, counts, scoring.DefaultTheta, scoring.DefaultGamma)

			Convey("Then it is boosted on the power curve", func() {
				So(out["top"], ShouldAlmostEqual, maxPossible, eps)
				So(out["mid"], ShouldAlmostEqual, math.Pow(0.5, 1.3)*maxPossible, eps)
				So(out["over"], ShouldAlmostEqual, maxPossible, eps)
			})
		})

		Convey("Then the reference maximum spans the whole instrument", func() {
			out := scoring.Enhance(instrument.Vector{"a": 1}, instrument.ItemCounts{"a": 1, "b": 9}, 0.5, 1.3)
			So(out["a"], ShouldAlmostEqual, 0.3, eps)
		})

		Convey("Then enhancement is non-decreasing within each branch", func() {
			var prevLow, prevHigh float64
			prevHigh = -1
			for i := 0; i <= 200; i++ {
				s := maxPossible * float64(i) / 200
				got := scoring.Enhance(instrument.Vector{"c": s}, counts, 0.5, 1.3)["c"]
				if s/maxPossible <= 0.5 {
					So(got, ShouldBeGreaterThanOrEqualTo, prevLow)
					prevLow = got
				} else {
					So(got, ShouldBeGreaterThanOrEqualTo, prevHigh)
					prevHigh = got
				}
			}
		})
	})
}

func TestApplyRankWeights(t *testing.T) {
	Convey("Given enhanced RIASEC scores with ties", t, func() {
		in := instrument.Vector{
			instrument.Realistic:     3,
			instrument.Investigative: 1,
			instrument.Artistic:      3,
			instrument.Social:        2,
			instrument.Enterprising:  0.5,
			instrument.Conventional:  0.1,
		}

		Convey("When applying the default weights", func() {
			out := scoring.ApplyRankWeights(instrument.RIASEC, in, nil)

			Convey("Then ties keep canonical order and late ranks reuse the last weight", func() {
				So(out[instrument.Realistic], ShouldEqual, 3)
				So(out[instrument.Artistic], ShouldEqual, 2.25)
				So(out[instrument.Social], ShouldEqual, 1)
				So(out[instrument.Investigative], ShouldEqual, 0.25)
				So(out[instrument.Enterprising], ShouldEqual, 0.125)
				So(out[instrument.Conventional], ShouldAlmostEqual, 0.025, eps)
			})

			Convey("Then the input is not modified", func() {
				So(in[instrument.Artistic], ShouldEqual, 3)
			})
		})

		Convey("When a single weight is given", func() {
			out := scoring.ApplyRankWeights(instrument.RIASEC, in, []float64{2})
			So(out[instrument.Conventional], ShouldAlmostEqual, 0.2, eps)
			So(out[instrument.Realistic], ShouldEqual, 6)
		})

		Convey("When the vector is empty", func() {
			So(scoring.ApplyRankWeights(instrument.Gardner, instrument.Vector{}, nil), ShouldBeEmpty)
		})
	})
}

func TestCombine(t *testing.T) {
	Convey("Given ranked vectors for the three instruments", t, func() {
		riasec := instrument.Vector{instrument.Realistic: 3, instrument.Investigative: 1}
		gardner := instrument.Vector{instrument.Musical: 0}
		gopc := instrument.Vector{instrument.SelfKnowledge: -1, instrument.Planning: 1}
		w := scoring.DefaultInstrumentWeights()

		person := scoring.Combine(riasec, gardner, gopc, w)

		Convey("Then each instrument sums to its weight", func() {
			So(person.Of(instrument.RIASEC).AbsSum(), ShouldAlmostEqual, 0.4, eps)
			So(person.Of(instrument.GOPC).AbsSum(), ShouldAlmostEqual, 0.2, eps)
			So(person.Of(instrument.RIASEC)[instrument.Realistic], ShouldAlmostEqual, 0.3, eps)
			So(person.Of(instrument.GOPC)[instrument.SelfKnowledge], ShouldAlmostEqual, -0.1, eps)
		})

		Convey("Then an all-zero vector stays zero", func() {
			So(person.Of(instrument.Gardner)[instrument.Musical], ShouldEqual, 0)
		})

		Convey("Then nil vectors become empty vectors", func() {
			empty := scoring.Combine(nil, nil, nil, w)
			So(empty.Of(instrument.RIASEC), ShouldNotBeNil)
			So(empty.Of(instrument.RIASEC), ShouldBeEmpty)
		})
	})

	Convey("Given instrument weights", t, func() {
		So(scoring.DefaultInstrumentWeights().Validate(), ShouldBeNil)

		err := scoring.InstrumentWeights{0.5, 0.5, 0.5}.Validate()
		So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)

		err = scoring.InstrumentWeights{-0.2, 0.6, 0.6}.Validate()
		So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
	})
}

func TestCompatibility(t *testing.T) {
	Convey("Given a small catalog", t, func() {
		cat, err := catalog.Build(catalog.Lists{
			instrument.RIASEC:  {instrument.Realistic: {"A1", "B1"}},
			instrument.Gardner: {instrument.Linguistic: {"A1"}},
		})
		So(err, ShouldBeNil)

		var person scoring.PersonVector
		person[instrument.RIASEC] = instrument.Vector{instrument.Realistic: 0.4}
		person[instrument.Gardner] = instrument.Vector{instrument.Linguistic: 0.4}

		Convey("When scoring a broad archetype", func() {
			a, _ := cat.Get("A1")
			score, b := scoring.Compatibility(person, a)

			Convey("Then high dimensions are penalized and breadth rewarded", func() {
				So(score, ShouldAlmostEqual, 0.4*1.002, eps)
				So(b.Contributions[instrument.RIASEC], ShouldAlmostEqual, 0.4, eps)
				So(b.Contributions[instrument.Gardner], ShouldAlmostEqual, 0.4, eps)
				So(b.Contributions[instrument.GOPC], ShouldEqual, 0)
				So(b.Norm, ShouldAlmostEqual, math.Sqrt2, eps)
				So(b.HighDimensions, ShouldEqual, 2)
				So(b.Dimensions, ShouldEqual, 2)
			})
		})

		Convey("When scoring an archetype with no weights", func() {
			score, b := scoring.Compatibility(person, catalog.Archetype{Career: "Vazio"})
			So(score, ShouldEqual, 0)
			So(b.Norm, ShouldEqual, 0)
		})

		Convey("When ranking the catalog", func() {
			matches := scoring.TopN(person, cat, 6)

			Convey("Then near-ties are ordered by name", func() {
				So(matches, ShouldHaveLength, 2)
				So(matches[0].Career, ShouldEqual, "A1")
				So(matches[1].Career, ShouldEqual, "B1")
				So(matches[1].Score, ShouldAlmostEqual, 0.4*1.001, eps)
			})
		})
	})

	Convey("Given an empty catalog", t, func() {
		cat, err := catalog.Build(catalog.Lists{})
		So(err, ShouldBeNil)
		So(scoring.TopN(scoring.PersonVector{}, cat, 6), ShouldBeEmpty)
	})

	Convey("Given an all-zero person vector", t, func() {
		cat := catalog.Default()
		matches := scoring.TopN(scoring.PersonVector{}, cat, 0)

		Convey("Then the default size is used and careers come alphabetically", func() {
			So(matches, ShouldHaveLength, scoring.DefaultTopN)
			names := cat.Names()
			for i, m := range matches {
				So(m.Score, ShouldEqual, 0)
				So(m.Career, ShouldEqual, names[i])
			}
		})
	})
}
