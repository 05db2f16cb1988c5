package numfield

import (
	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/indexable"
)

// CreateFields returns the physical representations of one value, in the order
// point, doc values, stored. A field with no capability yields nothing.
func (s *Service) CreateFields(f field.Config, external string) ([]indexable.Field, error) {
	if !f.HasDocValues() && !f.Stored() {
		if !f.Indexed() {
			s.observe(f, "ignoring unindexed/unstored field")
			return nil, nil
		}
		v, err := s.parse(f, external)
		if err != nil {
			return nil, err
		}
		return []indexable.Field{indexable.NewPoint(f.Name(), v)}, nil
	}

	if f.HasDocValues() && f.MultiValued() {
		return nil, domain.NewConfigurationError(f.Name(),
			"multiValued point fields with docValues need CreateMultiValueFields")
	}

	v, err := s.parse(f, external)
	if err != nil {
		return nil, err
	}
	out := make([]indexable.Field, 0, 3)
	if f.Indexed() {
		out = append(out, indexable.NewPoint(f.Name(), v))
	}
	if f.HasDocValues() {
		out = append(out, indexable.NewNumericDocValues(f.Name(), v))
	}
	if f.Stored() {
		out = append(out, indexable.NewStored(f.Name(), v))
	}
	return out, nil
}

// CreateMultiValueFields materializes every value of a multi-valued field. The
// columnar part is one sorted-numeric entry per value, which is what the
// columnar selections reduce over. Single-valued fields accept exactly one value.
func (s *Service) CreateMultiValueFields(f field.Config, externals []string) ([]indexable.Field, error) {
	if !f.MultiValued() {
		if len(externals) != 1 {
			return nil, domain.NewConfigurationError(f.Name(), "field is not multiValued")
		}
		return s.CreateFields(f, externals[0])
	}
	if !f.Used() {
		s.observe(f, "ignoring unindexed/unstored field")
		return nil, nil
	}

	out := make([]indexable.Field, 0, 3*len(externals))
	for _, ext := range externals {
		v, err := s.parse(f, ext)
		if err != nil {
			return nil, err
		}
		if f.Indexed() {
			out = append(out, indexable.NewPoint(f.Name(), v))
		}
		if f.HasDocValues() {
			out = append(out, indexable.NewSortedNumericDocValues(f.Name(), v))
		}
		if f.Stored() {
			out = append(out, indexable.NewStored(f.Name(), v))
		}
	}
	return out, nil
}
