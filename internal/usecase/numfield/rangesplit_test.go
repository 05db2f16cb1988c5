package numfield

import (
	"math"
	"strconv"
	"testing"

	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
)

func columnarFloat(t *testing.T, d numeric.Domain) field.Config {
	t.Helper()
	return makeField(t, "price", d, field.Flags{DocValues: true})
}

// matches evaluates a columnar float query the way the doc-values store does.
func matches(t *testing.T, q query.Query, v numeric.Value) bool {
	t.Helper()
	switch q := q.(type) {
	case query.DocValuesRange:
		return q.Matches(v.Encoding())
	case query.FunctionRange:
		return q.Matches(v)
	default:
		t.Fatalf("unexpected query type %T", q)
		return false
	}
}

func TestRangeSplit_Straddling(t *testing.T) {
	svc, _, _, _ := newService(t)
	f := columnarFloat(t, numeric.Float64)

	q, err := svc.RangeQuery(f, str("-5.0"), str("10.0"), true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := q.(query.FunctionRange); !ok {
		t.Fatalf("query = %T, want query.FunctionRange", q)
	}

	samples := []struct {
		v    float64
		want bool
	}{
		{math.Inf(-1), false},
		{-5.000001, false},
		{-5, true},
		{-1, true},
		{negZero, true},
		{0, true},
		{1e-300, true},
		{10, true},
		{10.000001, false},
		{math.Inf(1), false},
		{math.NaN(), false},
	}
	for _, s := range samples {
		if got := matches(t, q, numeric.Float64Value(s.v)); got != s.want {
			t.Errorf("matches(%v) = %v, want %v", s.v, got, s.want)
		}
	}
}

func TestRangeSplit_NegativeSwap(t *testing.T) {
	svc, _, _, _ := newService(t)
	f := columnarFloat(t, numeric.Float64)

	q, err := svc.RangeQuery(f, str("-100.0"), str("-1.0"), true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dv, ok := q.(query.DocValuesRange)
	if !ok {
		t.Fatalf("query = %T, want query.DocValuesRange", q)
	}
	if dv.Lower() != numeric.Float64Value(-1).Encoding() {
		t.Errorf("Lower() = %x, want enc(-1)", dv.Lower())
	}
	if dv.Upper() != numeric.Float64Value(-100).Encoding() {
		t.Errorf("Upper() = %x, want enc(-100)", dv.Upper())
	}
	if !dv.LowerInclusive() || !dv.UpperInclusive() {
		t.Error("both bounds should be inclusive")
	}
}

func TestRangeSplit_NegativeSwapsInclusivity(t *testing.T) {
	svc, _, _, _ := newService(t)
	f := columnarFloat(t, numeric.Float32)

	q, err := svc.RangeQuery(f, str("-100"), str("-1"), true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dv := q.(query.DocValuesRange)
	if dv.LowerInclusive() || !dv.UpperInclusive() {
		t.Errorf("inclusive = %v/%v, want false/true", dv.LowerInclusive(), dv.UpperInclusive())
	}
	if matches(t, q, numeric.Float32Value(-1)) {
		t.Error("-1 should be excluded by an exclusive upper bound")
	}
	if !matches(t, q, numeric.Float32Value(-100)) {
		t.Error("-100 should be included by an inclusive lower bound")
	}
}

func TestRangeSplit_UnboundedEnds(t *testing.T) {
	svc, _, _, _ := newService(t)
	f := columnarFloat(t, numeric.Float32)
	sp, _ := numeric.SpecialsFor(numeric.Float32)

	q, err := svc.RangeQuery(f, nil, str("-2"), true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dv := q.(query.DocValuesRange)
	if dv.Upper() != sp.NegativeInfinity {
		t.Errorf("open lower bound: Upper() = %x, want -Inf %x", dv.Upper(), sp.NegativeInfinity)
	}

	q, err = svc.RangeQuery(f, str("2"), nil, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dv = q.(query.DocValuesRange)
	if dv.Lower() != numeric.Float32Value(2).Encoding() || dv.Upper() != sp.PositiveInfinity {
		t.Errorf("open upper bound: %s", dv)
	}
	if dv.LowerInclusive() {
		t.Error("lower inclusivity should be kept")
	}

	q, err = svc.RangeQuery(f, nil, nil, true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := q.(query.FunctionRange); !ok {
		t.Errorf("fully open range = %T, want query.FunctionRange", q)
	}
}

func TestRangeSplit_ZeroBounds(t *testing.T) {
	svc, _, _, _ := newService(t)
	f := columnarFloat(t, numeric.Float64)
	sp, _ := numeric.SpecialsFor(numeric.Float64)

	// +0 lower bound is non-negative.
	q, err := svc.RangeQuery(f, str("0"), str("5"), true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dv, ok := q.(query.DocValuesRange)
	if !ok || dv.Lower() != sp.Zero {
		t.Fatalf("[0 TO 5] = %s, want columnar range from +0", q)
	}
	if matches(t, q, numeric.Float64Value(negZero)) {
		t.Error("[0 TO 5] should not match -0")
	}

	// -0 lower bound is negative, so the range straddles.
	q, err = svc.RangeQuery(f, str("-0"), str("5"), true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := q.(query.FunctionRange); !ok {
		t.Fatalf("[-0 TO 5] = %T, want query.FunctionRange", q)
	}

	// -0 exclusive upper bound is negative: the all-negative branch keeps +0 out.
	q, err = svc.RangeQuery(f, str("-10"), str("-0"), true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dv, ok = q.(query.DocValuesRange)
	if !ok || dv.Lower() != sp.NegativeZero {
		t.Fatalf("[-10 TO -0} = %s, want columnar range from -0", q)
	}
	if matches(t, q, numeric.Float64Value(0)) {
		t.Error("[-10 TO -0} should not match +0")
	}
	if matches(t, q, numeric.Float64Value(negZero)) {
		t.Error("[-10 TO -0} should not match -0")
	}
	if !matches(t, q, numeric.Float64Value(-3)) {
		t.Error("[-10 TO -0} should match -3")
	}
}

func TestRangeSplit_DegenerateExact(t *testing.T) {
	svc, _, _, _ := newService(t)
	f := columnarFloat(t, numeric.Float64)

	for _, v := range []float64{-2.5, 2.5} {
		ext := strconv.FormatFloat(v, 'g', -1, 64)
		q, err := svc.ExactQuery(f, ext)
		if err != nil {
			t.Fatalf("ExactQuery(%s): %v", ext, err)
		}
		if !matches(t, q, numeric.Float64Value(v)) {
			t.Errorf("ExactQuery(%s) does not match its own value", ext)
		}
		if matches(t, q, numeric.Float64Value(v+1)) || matches(t, q, numeric.Float64Value(-v)) {
			t.Errorf("ExactQuery(%s) matches other values", ext)
		}
	}
}

// Every bound combination away from zero must select exactly the numeric interval.
func TestRangeSplit_AgreesWithNumericOrder(t *testing.T) {
	svc, _, _, _ := newService(t)
	bounds := []*string{nil, str("-Inf"), str("-100"), str("-1"), str("-0.5"), str("0.5"), str("1"), str("100"), str("Inf")}
	samples := []float64{
		math.Inf(-1), -1000, -100, -50, -1, -0.75, -0.5, -0.25, negZero,
		0, 0.25, 0.5, 0.75, 1, 50, 100, 1000, math.Inf(1), math.NaN(),
	}

	for _, d := range []numeric.Domain{numeric.Float32, numeric.Float64} {
		f := columnarFloat(t, d)
		codec := numeric.NewCodec()
		for _, lo := range bounds {
			for _, hi := range bounds {
				for _, inc := range [][2]bool{{true, true}, {true, false}, {false, true}, {false, false}} {
					minInc, maxInc := inc[0] || lo == nil, inc[1] || hi == nil
					q, err := svc.RangeQuery(f, lo, hi, minInc, maxInc)
					if err != nil {
						t.Fatalf("RangeQuery: %v", err)
					}
					ref := query.Bounds{MinInclusive: minInc, MaxInclusive: maxInc}
					if lo != nil {
						v, _ := codec.Parse(d, *lo)
						ref.Min = &v
					}
					if hi != nil {
						v, _ := codec.Parse(d, *hi)
						ref.Max = &v
					}
					for _, s := range samples {
						var v numeric.Value
						if d == numeric.Float32 {
							v = numeric.Float32Value(float32(s))
						} else {
							v = numeric.Float64Value(s)
						}
						if got, want := matches(t, q, v), ref.Contains(v); got != want {
							t.Errorf("%s %s: matches(%v) = %v, want %v", d, q, s, got, want)
						}
					}
				}
			}
		}
	}
}
