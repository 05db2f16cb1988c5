package pointindex

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/indexable"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
)

func makeField(t *testing.T, name string, d numeric.Domain) field.Config {
	t.Helper()
	f, err := field.New(name, d, field.Flags{Indexed: true})
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func ptr(v numeric.Value) *numeric.Value { return &v }

func TestSearch_Exact(t *testing.T) {
	idx := New()
	f := makeField(t, "qty", numeric.Int32)
	idx.Add(1, indexable.NewPoint("qty", numeric.Int32Value(5)))
	idx.Add(2, indexable.NewPoint("qty", numeric.Int32Value(-5)))
	idx.Add(3, indexable.NewPoint("qty", numeric.Int32Value(5)), indexable.NewStored("qty", numeric.Int32Value(5)))

	bm, err := idx.Search(idx.Exact(f, numeric.Int32Value(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bm.ToArray(); !slices.Equal(got, []uint32{1, 3}) {
		t.Errorf("Exact(5) = %v, want [1 3]", got)
	}
}

func TestSearch_Set(t *testing.T) {
	idx := New()
	f := makeField(t, "qty", numeric.Int64)
	for doc, v := range []int64{10, 20, 30, 40} {
		idx.Add(uint32(doc), indexable.NewPoint("qty", numeric.Int64Value(v)))
	}

	bm, err := idx.Search(idx.Set(f, []numeric.Value{numeric.Int64Value(20), numeric.Int64Value(40), numeric.Int64Value(50)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bm.ToArray(); !slices.Equal(got, []uint32{1, 3}) {
		t.Errorf("Set = %v, want [1 3]", got)
	}
}

func TestSearch_RangeInclusivity(t *testing.T) {
	idx := New()
	f := makeField(t, "price", numeric.Float64)
	values := []float64{-10, -1, math.Copysign(0, -1), 0, 1, 10}
	for doc, v := range values {
		idx.Add(uint32(doc), indexable.NewPoint("price", numeric.Float64Value(v)))
	}

	tests := []struct {
		name string
		b    query.Bounds
		want []uint32
	}{
		{"closed", query.Bounds{Min: ptr(numeric.Float64Value(-1)), Max: ptr(numeric.Float64Value(1)), MinInclusive: true, MaxInclusive: true}, []uint32{1, 2, 3, 4}},
		{"open", query.Bounds{Min: ptr(numeric.Float64Value(-1)), Max: ptr(numeric.Float64Value(1))}, []uint32{2, 3}},
		{"unbounded below", query.Bounds{Max: ptr(numeric.Float64Value(-1)), MaxInclusive: true}, []uint32{0, 1}},
		{"unbounded above", query.Bounds{Min: ptr(numeric.Float64Value(1))}, []uint32{5}},
		{"everything", query.Bounds{}, []uint32{0, 1, 2, 3, 4, 5}},
		{"empty", query.Bounds{Min: ptr(numeric.Float64Value(2)), Max: ptr(numeric.Float64Value(3)), MinInclusive: true, MaxInclusive: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := idx.Search(idx.Range(f, tt.b))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := bm.ToArray()
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Range %s = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

// Range results must match a brute-force numeric scan.
func TestSearch_RangeAgreesWithScan(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	idx := New()
	f := makeField(t, "n", numeric.Int32)
	values := make([]int32, 500)
	for i := range values {
		values[i] = int32(rng.IntN(2001) - 1000)
		idx.Add(uint32(i), indexable.NewPoint("n", numeric.Int32Value(values[i])))
	}

	for range 50 {
		lo, hi := int32(rng.IntN(2001)-1000), int32(rng.IntN(2001)-1000)
		minInc, maxInc := rng.IntN(2) == 0, rng.IntN(2) == 0
		b := query.Bounds{Min: ptr(numeric.Int32Value(lo)), Max: ptr(numeric.Int32Value(hi)), MinInclusive: minInc, MaxInclusive: maxInc}

		bm, err := idx.Search(idx.Range(f, b))
		if err != nil {
			t.Fatal(err)
		}
		var want []uint32
		for doc, v := range values {
			if b.Contains(numeric.Int32Value(v)) {
				want = append(want, uint32(doc))
			}
		}
		got := bm.ToArray()
		if len(got) != len(want) || (len(want) > 0 && !slices.Equal(got, want)) {
			t.Errorf("Range %s: got %d docs, want %d", b, len(got), len(want))
		}
	}
}

func TestRemove(t *testing.T) {
	idx := New()
	f := makeField(t, "qty", numeric.Int32)
	idx.Add(1, indexable.NewPoint("qty", numeric.Int32Value(7)), indexable.NewPoint("qty", numeric.Int32Value(7)))
	idx.Add(2, indexable.NewPoint("qty", numeric.Int32Value(7)))

	idx.Remove(1)
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
	bm, _ := idx.Search(idx.Exact(f, numeric.Int32Value(7)))
	if got := bm.ToArray(); !slices.Equal(got, []uint32{2}) {
		t.Errorf("after Remove = %v, want [2]", got)
	}

	idx.Remove(2)
	bm, _ = idx.Search(idx.Range(f, query.Bounds{}))
	if !bm.IsEmpty() {
		t.Errorf("after removing all docs = %v, want empty", bm.ToArray())
	}
}

func TestSearch_UnknownFieldAndKind(t *testing.T) {
	idx := New()
	f := makeField(t, "qty", numeric.Int32)

	bm, err := idx.Search(idx.Exact(f, numeric.Int32Value(1)))
	if err != nil || !bm.IsEmpty() {
		t.Errorf("unknown field = %v, %v; want empty", bm.ToArray(), err)
	}

	idx.Add(1, indexable.NewPoint("qty", numeric.Int32Value(1)))
	_, err = idx.Search(query.NewDocValuesRange("qty", numeric.Int32, 0, 1, true, true))
	if !errors.Is(err, ErrUnsupportedQuery) {
		t.Errorf("error = %v, want ErrUnsupportedQuery", err)
	}
}

func TestSearch_ResultIsACopy(t *testing.T) {
	idx := New()
	f := makeField(t, "qty", numeric.Int32)
	idx.Add(1, indexable.NewPoint("qty", numeric.Int32Value(1)))

	bm, _ := idx.Search(idx.Exact(f, numeric.Int32Value(1)))
	bm.Add(99)

	again, _ := idx.Search(idx.Exact(f, numeric.Int32Value(1)))
	if again.Contains(99) {
		t.Error("mutating a result leaked into the index")
	}
}
