package numfield

import (
	"math"

	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
)

// ExactQuery matches documents whose value equals external.
func (s *Service) ExactQuery(f field.Config, external string) (query.Query, error) {
	switch {
	case f.Indexed():
		v, err := s.parse(f, external)
		if err != nil {
			return nil, err
		}
		return s.points.Exact(f, v), nil
	case f.HasDocValues() && !f.MultiValued():
		return s.RangeQuery(f, &external, &external, true, true)
	default:
		return nil, domain.NewConfigurationError(f.Name(),
			"can't run exact query on a field that is neither indexed nor single-valued docValues")
	}
}

// SetQuery matches documents holding any of externals. It needs the point index.
func (s *Service) SetQuery(f field.Config, externals []string) (query.Query, error) {
	if !f.Indexed() {
		return nil, domain.NewConfigurationError(f.Name(), "set query requires an indexed field")
	}
	values := make([]numeric.Value, 0, len(externals))
	for _, ext := range externals {
		v, err := s.parse(f, ext)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return s.points.Set(f, values), nil
}

// RangeQuery matches documents with a value between min and max. A nil bound is open.
func (s *Service) RangeQuery(f field.Config, minExt, maxExt *string, minInclusive, maxInclusive bool) (query.Query, error) {
	columnar := !f.Indexed() && f.HasDocValues() && !f.MultiValued()
	if !f.Indexed() && !columnar {
		if f.HasDocValues() {
			return nil, domain.NewConfigurationError(f.Name(),
				"can't run range query on a multiValued docValues field without a point index")
		}
		return nil, domain.NewConfigurationError(f.Name(),
			"can't run range query on a field that is neither indexed nor docValues")
	}

	lo, err := s.parseOptional(f, minExt)
	if err != nil {
		return nil, err
	}
	hi, err := s.parseOptional(f, maxExt)
	if err != nil {
		return nil, err
	}

	if !columnar {
		return s.points.Range(f, query.Bounds{
			Min:          lo,
			Max:          hi,
			MinInclusive: minInclusive,
			MaxInclusive: maxInclusive,
		}), nil
	}
	if f.Domain().IsFloating() {
		return splitFloatRange(f, lo, hi, minInclusive, maxInclusive)
	}
	return integerDocValuesRange(f, lo, hi, minInclusive, maxInclusive)
}

// FieldQuery is the query for a bare "field:value" term.
func (s *Service) FieldQuery(f field.Config, external string) (query.Query, error) {
	if !f.Indexed() && f.HasDocValues() {
		return s.RangeQuery(f, &external, &external, true, true)
	}
	return s.ExactQuery(f, external)
}

// Integer and temporal encodings are signed and sort numerically, so bounds map
// directly. An open end becomes the inclusive domain extreme.
func integerDocValuesRange(f field.Config, lo, hi *numeric.Value, minInclusive, maxInclusive bool) (query.Query, error) {
	var minEnc, maxEnc numeric.Encoding
	switch f.Domain() {
	case numeric.Int32:
		minEnc = numeric.Int32Value(math.MinInt32).Encoding()
		maxEnc = numeric.Int32Value(math.MaxInt32).Encoding()
	case numeric.Int64, numeric.Temporal:
		minEnc = numeric.Int64Value(math.MinInt64).Encoding()
		maxEnc = numeric.Int64Value(math.MaxInt64).Encoding()
	default:
		return nil, domain.NewInternalConsistencyError("integer range on domain " + f.Domain().String())
	}
	if lo != nil {
		minEnc = lo.Encoding()
	} else {
		minInclusive = true
	}
	if hi != nil {
		maxEnc = hi.Encoding()
	} else {
		maxInclusive = true
	}
	return query.NewDocValuesRange(f.Name(), f.Domain(), minEnc, maxEnc, minInclusive, maxInclusive), nil
}
