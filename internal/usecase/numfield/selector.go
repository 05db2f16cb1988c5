package numfield

import (
	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/selector"
)

var columnarSelections = map[selector.Type]selector.Selection{
	selector.Min:        selector.SelectMin,
	selector.Max:        selector.SelectMax,
	selector.MedianLow:  selector.SelectMiddleMin,
	selector.MedianHigh: selector.SelectMiddleMax,
}

// SelectValueSource returns a source yielding one value per document. For a
// single-valued field the selector is ignored.
func (s *Service) SelectValueSource(f field.Config, t selector.Type) (selector.ValueSource, error) {
	if !f.MultiValued() {
		return s.columns.Source(f), nil
	}
	if !f.HasDocValues() {
		return nil, domain.NewConfigurationError(f.Name(),
			"can't select a single value from a multiValued field without docValues")
	}
	sel, ok := columnarSelections[t]
	if !ok {
		return nil, domain.NewUnsupportedSelectorError(f.Name(), string(t), f.Domain().String())
	}
	return s.columns.Select(f, sel), nil
}
