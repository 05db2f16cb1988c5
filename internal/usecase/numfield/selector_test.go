package numfield

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/selector"
)

func TestSelectValueSource_Gating(t *testing.T) {
	svc, _, _, _ := newService(t)

	without := makeField(t, "sizes", numeric.Int32, field.Flags{Indexed: true, MultiValued: true})
	if _, err := svc.SelectValueSource(without, selector.Max); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("without docValues: error = %v, want ErrConfiguration", err)
	}

	with := makeField(t, "sizes", numeric.Int32, field.Flags{Indexed: true, MultiValued: true, DocValues: true})
	src, err := svc.SelectValueSource(with, selector.Max)
	if err != nil {
		t.Fatalf("with docValues: unexpected error: %v", err)
	}
	if src.Description() != "MAX(sizes)" {
		t.Errorf("Description() = %q, want MAX(sizes)", src.Description())
	}
}

func TestSelectValueSource_Mapping(t *testing.T) {
	svc, _, columns, _ := newService(t)
	f := makeField(t, "sizes", numeric.Float64, field.Flags{MultiValued: true, DocValues: true})

	tests := []struct {
		in   selector.Type
		want selector.Selection
	}{
		{selector.Min, selector.SelectMin},
		{selector.Max, selector.SelectMax},
		{selector.MedianLow, selector.SelectMiddleMin},
		{selector.MedianHigh, selector.SelectMiddleMax},
	}
	for _, tt := range tests {
		if _, err := svc.SelectValueSource(f, tt.in); err != nil {
			t.Errorf("%s: unexpected error: %v", tt.in, err)
			continue
		}
		got := columns.selected[len(columns.selected)-1]
		if got != tt.want {
			t.Errorf("%s mapped to %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSelectValueSource_Unsupported(t *testing.T) {
	svc, _, _, _ := newService(t)
	f := makeField(t, "sizes", numeric.Int64, field.Flags{MultiValued: true, DocValues: true})

	for _, sel := range []selector.Type{selector.Sum, selector.Avg} {
		_, err := svc.SelectValueSource(f, sel)
		if !errors.Is(err, domain.ErrUnsupportedSelector) {
			t.Errorf("%s: error = %v, want ErrUnsupportedSelector", sel, err)
		}
	}
}

func TestSelectValueSource_SingleValuedIgnoresSelector(t *testing.T) {
	svc, _, columns, _ := newService(t)
	f := makeField(t, "price", numeric.Float64, field.Flags{DocValues: true})

	src, err := svc.SelectValueSource(f, selector.Sum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Description() != "field(price)" {
		t.Errorf("Description() = %q, want field(price)", src.Description())
	}
	if len(columns.selected) != 0 {
		t.Errorf("Select should not be called, got %v", columns.selected)
	}
}
