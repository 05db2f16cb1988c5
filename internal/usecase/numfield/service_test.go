package numfield

import (
	"math"
	"testing"

	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
	"github.com/kailas-cloud/pointfield/internal/domain/selector"
)

// --- Mocks ---

type mockPoints struct {
	calls []string
}

func (m *mockPoints) Exact(f field.Config, v numeric.Value) query.Query {
	m.calls = append(m.calls, "exact")
	return query.NewPointExact(f.Name(), v)
}

func (m *mockPoints) Set(f field.Config, values []numeric.Value) query.Query {
	m.calls = append(m.calls, "set")
	return query.NewPointSet(f.Name(), f.Domain(), values)
}

func (m *mockPoints) Range(f field.Config, b query.Bounds) query.Query {
	m.calls = append(m.calls, "range")
	return query.NewPointRange(f.Name(), f.Domain(), b)
}

type mockSource struct {
	field string
	desc  string
}

func (m mockSource) Field() string { return m.field }

func (m mockSource) Value(uint32) (numeric.Value, bool) { return numeric.Value{}, false }

func (m mockSource) Description() string { return m.desc }

type mockColumns struct {
	selected []selector.Selection
}

func (m *mockColumns) Source(f field.Config) selector.ValueSource {
	return mockSource{field: f.Name(), desc: "field(" + f.Name() + ")"}
}

func (m *mockColumns) Select(f field.Config, s selector.Selection) selector.ValueSource {
	m.selected = append(m.selected, s)
	return mockSource{field: f.Name(), desc: s.String() + "(" + f.Name() + ")"}
}

type observed struct {
	field string
	msg   string
}

func newService(t *testing.T) (*Service, *mockPoints, *mockColumns, *[]observed) {
	t.Helper()
	points := &mockPoints{}
	columns := &mockColumns{}
	var events []observed
	svc := New(nil, points, columns, WithObserver(func(f field.Config, msg string) {
		events = append(events, observed{field: f.Name(), msg: msg})
	}))
	return svc, points, columns, &events
}

func makeField(t *testing.T, name string, d numeric.Domain, flags field.Flags) field.Config {
	t.Helper()
	f, err := field.New(name, d, flags)
	if err != nil {
		t.Fatalf("field.New(%q): %v", name, err)
	}
	return f
}

func str(s string) *string { return &s }

var negZero = math.Copysign(0, -1)
