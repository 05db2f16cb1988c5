package pointfield

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

type product struct {
	SKU      string    `pointfield:"sku,id"`
	Price    float64   `pointfield:"price,indexed,stored,docvalues"`
	Rating   float32   `pointfield:"rating,stored"`
	Stock    int32     `pointfield:",indexed,stored"`
	Sizes    []int32   `pointfield:"sizes,indexed,stored,docvalues"`
	Views    int64     `pointfield:"views,docvalues"`
	Released time.Time `pointfield:"released,indexed,stored"`
	Note     string
}

func TestParseSchema(t *testing.T) {
	meta, err := parseSchema[product]()
	if err != nil {
		t.Fatalf("parseSchema: %v", err)
	}
	if meta.idIdx != 0 {
		t.Errorf("idIdx = %d, want 0", meta.idIdx)
	}

	want := []FieldInfo{
		{Name: "price", Type: Float64, Flags: Indexed | Stored | DocValues},
		{Name: "rating", Type: Float32, Flags: Stored},
		{Name: "stock", Type: Int32, Flags: Indexed | Stored},
		{Name: "sizes", Type: Int32, Flags: Indexed | Stored | DocValues | MultiValued},
		{Name: "views", Type: Int64, Flags: DocValues},
		{Name: "released", Type: Date, Flags: Indexed | Stored},
	}
	if !slices.Equal(meta.fields, want) {
		t.Errorf("fields = %+v\nwant %+v", meta.fields, want)
	}
}

func TestParseSchema_Errors(t *testing.T) {
	type noID struct {
		Price float64 `pointfield:"price,indexed"`
	}
	type intID struct {
		ID    int     `pointfield:"id,id"`
		Price float64 `pointfield:"price,indexed"`
	}
	type twoIDs struct {
		A     string  `pointfield:"a,id"`
		B     string  `pointfield:"b,id"`
		Price float64 `pointfield:"price,indexed"`
	}
	type badModifier struct {
		ID    string  `pointfield:"id,id"`
		Price float64 `pointfield:"price,sortable"`
	}
	type badType struct {
		ID   string `pointfield:"id,id"`
		Name string `pointfield:"name,stored"`
	}
	type noFields struct {
		ID string `pointfield:"id,id"`
	}

	checks := map[string]func() error{
		"no id":        func() error { _, err := parseSchema[noID](); return err },
		"int id":       func() error { _, err := parseSchema[intID](); return err },
		"two ids":      func() error { _, err := parseSchema[twoIDs](); return err },
		"bad modifier": func() error { _, err := parseSchema[badModifier](); return err },
		"bad type":     func() error { _, err := parseSchema[badType](); return err },
		"no fields":    func() error { _, err := parseSchema[noFields](); return err },
		"not a struct": func() error { _, err := parseSchema[int](); return err },
	}
	for name, check := range checks {
		if check() == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSchemaMeta_ValuesRoundTrip(t *testing.T) {
	meta, err := parseSchema[product]()
	if err != nil {
		t.Fatalf("parseSchema: %v", err)
	}
	in := product{
		SKU:      "p-1",
		Price:    19.99,
		Rating:   4.5,
		Stock:    -3,
		Sizes:    []int32{42, 38},
		Views:    1 << 40,
		Released: time.Date(2024, 3, 15, 13, 45, 30, 123_000_000, time.UTC),
		Note:     "ignored",
	}

	id, values := meta.toValues(in)
	if id != "p-1" {
		t.Errorf("id = %q, want p-1", id)
	}
	if !slices.Equal(values["released"], []string{"2024-03-15T13:45:30.123Z"}) {
		t.Errorf("released = %v", values["released"])
	}
	if !slices.Equal(values["sizes"], []string{"42", "38"}) {
		t.Errorf("sizes = %v", values["sizes"])
	}
	if !slices.Equal(values["rating"], []string{"4.5"}) {
		t.Errorf("rating = %v", values["rating"])
	}

	back, err := meta.fromValues(id, values)
	if err != nil {
		t.Fatalf("fromValues: %v", err)
	}
	got := back.(product)
	in.Note = ""
	if got.SKU != in.SKU || got.Price != in.Price || got.Rating != in.Rating || got.Stock != in.Stock ||
		got.Views != in.Views || !got.Released.Equal(in.Released) || !slices.Equal(got.Sizes, in.Sizes) {
		t.Errorf("round trip = %+v, want %+v", got, in)
	}
}

func TestSchemaMeta_EmptySliceSkipped(t *testing.T) {
	meta, err := parseSchema[product]()
	if err != nil {
		t.Fatalf("parseSchema: %v", err)
	}
	_, values := meta.toValues(&product{SKU: "p"})
	if _, ok := values["sizes"]; ok {
		t.Errorf("empty slice should be skipped, got %v", values["sizes"])
	}
}

func TestTypedIndex(t *testing.T) {
	idx, err := NewIndex[product]()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer idx.Close()
	ctx := context.Background()

	items := []product{
		{SKU: "a", Price: 10, Stock: 1, Sizes: []int32{42}, Views: 5},
		{SKU: "b", Price: 3.5, Stock: 0, Views: 50},
		{SKU: "c", Price: 7, Stock: 4, Sizes: []int32{38, 40}, Views: 500},
	}
	for _, it := range items {
		if err := idx.Put(ctx, it); err != nil {
			t.Fatalf("Put(%s): %v", it.SKU, err)
		}
	}

	got, err := idx.Get(ctx, "c")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Price != 7 || got.Stock != 4 || !slices.Equal(got.Sizes, []int32{38, 40}) {
		t.Errorf("Get = %+v", got)
	}
	if got.Views != 0 {
		t.Errorf("views is not stored, got %d", got.Views)
	}

	hits, err := idx.Search(ctx, Range("price").Gte("5").SortBy("", Min).Desc())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 || hits[0].Item.SKU != "a" || hits[1].Item.SKU != "c" {
		t.Fatalf("hits = %+v, want a then c", hits)
	}
	if hits[1].SortValue != "7" {
		t.Errorf("sort value = %q, want 7", hits[1].SortValue)
	}

	if err := idx.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := idx.Get(ctx, "a"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Get after delete error = %v, want ErrDocumentNotFound", err)
	}
	if idx.Client().Fields()[0].Name != "price" {
		t.Errorf("first field = %+v", idx.Client().Fields()[0])
	}
}
