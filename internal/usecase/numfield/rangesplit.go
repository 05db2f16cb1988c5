package numfield

import (
	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
)

// splitFloatRange builds a columnar query for a floating field. Raw IEEE-754
// encodings sort in numeric order only within one sign, and in reverse order among
// negatives, so a range touching zero from both sides cannot be one encoding interval.
func splitFloatRange(f field.Config, lo, hi *numeric.Value, minInclusive, maxInclusive bool) (query.Query, error) {
	sp, ok := numeric.SpecialsFor(f.Domain())
	if !ok {
		return nil, domain.NewInternalConsistencyError("range split on non-floating domain " + f.Domain().String())
	}

	// NaN is neither negative nor non-negative and ends up in the non-negative branch.
	negative := func(v *numeric.Value) bool {
		return v.Float64() < 0 || v.Encoding() == sp.NegativeZero
	}
	nonNegative := func(v *numeric.Value) bool {
		return v.Float64() > 0 || v.Encoding() == sp.Zero
	}

	lowNegative := lo == nil || negative(lo)
	switch {
	case lowNegative && (hi == nil || nonNegative(hi)):
		return query.NewFunctionRange(f.Name(), f.Domain(), query.Bounds{
			Min:          lo,
			Max:          hi,
			MinInclusive: minInclusive,
			MaxInclusive: maxInclusive,
		}), nil
	case lowNegative && negative(hi):
		upper := sp.NegativeInfinity
		if lo != nil {
			upper = lo.Encoding()
		}
		return query.NewDocValuesRange(f.Name(), f.Domain(),
			hi.Encoding(), upper, maxInclusive, minInclusive), nil
	case hi != nil && negative(hi):
		// Non-negative lower bound above a negative upper bound: nothing matches.
		return query.NewDocValuesRange(f.Name(), f.Domain(), sp.Zero, sp.Zero, false, false), nil
	default:
		lower, upper := sp.Zero, sp.PositiveInfinity
		if lo != nil {
			lower = lo.Encoding()
		}
		if hi != nil {
			upper = hi.Encoding()
		}
		return query.NewDocValuesRange(f.Name(), f.Domain(),
			lower, upper, minInclusive, maxInclusive), nil
	}
}
