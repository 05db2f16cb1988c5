package numeric

import (
	"bytes"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/kailas-cloud/pointfield/internal/datemath"
	"github.com/kailas-cloud/pointfield/internal/domain"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec()
	tests := []struct {
		d    Domain
		in   string
		want string
	}{
		{Int32, "0", "0"},
		{Int32, "-2147483648", "-2147483648"},
		{Int32, "2147483647", "2147483647"},
		{Int64, "-9223372036854775808", "-9223372036854775808"},
		{Int64, "42", "42"},
		{Float32, "1.5", "1.5"},
		{Float32, "-0", "-0"},
		{Float32, "0.1", "0.1"},
		{Float32, "Inf", "+Inf"},
		{Float64, "-Inf", "-Inf"},
		{Float64, "NaN", "NaN"},
		{Float64, "3.141592653589793", "3.141592653589793"},
		{Float64, "-1e-300", "-1e-300"},
		{Temporal, "2024-03-15T13:45:30Z", "2024-03-15T13:45:30Z"},
		{Temporal, "2024-03-15T13:45:30.123Z", "2024-03-15T13:45:30.123Z"},
		{Temporal, "+10000-01-01T00:00:00Z", "+10000-01-01T00:00:00Z"},
		{Temporal, "-0001-12-31T23:59:59.999Z", "-0001-12-31T23:59:59.999Z"},
		{Temporal, "9999-12-31T23:59:59.999Z+1MILLI", "+10000-01-01T00:00:00Z"},
	}
	for _, tt := range tests {
		enc, err := c.Encode(tt.d, tt.in)
		if err != nil {
			t.Errorf("Encode(%s, %q) unexpected error: %v", tt.d, tt.in, err)
			continue
		}
		got, err := c.Decode(tt.d, enc)
		if err != nil {
			t.Errorf("Decode(%s, %x) unexpected error: %v", tt.d, enc, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Decode(Encode(%s, %q)) = %q, want %q", tt.d, tt.in, got, tt.want)
		}
	}
}

func TestCodec_TemporalEncodingRoundTrip(t *testing.T) {
	c := NewCodec()
	for _, ms := range []int64{253402300800000, -62167219200001, math.MaxInt64, math.MinInt64} {
		text, err := c.Decode(Temporal, Encoding(uint64(ms)))
		if err != nil {
			t.Fatalf("Decode(%d): %v", ms, err)
		}
		enc, err := c.Encode(Temporal, text)
		if err != nil {
			t.Errorf("Encode(Decode(%d) = %q): %v", ms, text, err)
			continue
		}
		if int64(enc) != ms {
			t.Errorf("Encode(%q) = %d, want %d", text, int64(enc), ms)
		}
	}
}

func TestCodec_ParseErrors(t *testing.T) {
	c := NewCodec()
	tests := []struct {
		d  Domain
		in string
	}{
		{Int32, "2147483648"},
		{Int32, "1.5"},
		{Int64, "abc"},
		{Int64, ""},
		{Float32, "one"},
		{Float64, "1,5"},
		{Temporal, "yesterday"},
	}
	for _, tt := range tests {
		_, err := c.Encode(tt.d, tt.in)
		if !errors.Is(err, domain.ErrParse) {
			t.Errorf("Encode(%s, %q) error = %v, want ErrParse", tt.d, tt.in, err)
		}
	}
}

func TestCodec_UnknownDomain(t *testing.T) {
	_, err := NewCodec().Encode("int16", "1")
	if !errors.Is(err, domain.ErrInternalConsistency) {
		t.Errorf("error = %v, want ErrInternalConsistency", err)
	}
}

func TestCodec_TemporalParserInjected(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewCodec(WithTemporalParser(datemath.NewParser(datemath.WithNow(func() time.Time { return now }))))

	v, err := c.Parse(Temporal, "NOW/DAY")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !v.Time().Equal(want) {
		t.Errorf("Time() = %v, want %v", v.Time(), want)
	}
}

func TestEncoding_SameSignOrdering(t *testing.T) {
	c := NewCodec()
	pairs := []struct {
		d    Domain
		a, b string
	}{
		{Float32, "0", "1"},
		{Float32, "1.5", "1e30"},
		{Float32, "2", "Inf"},
		{Float64, "1e-300", "1"},
		{Float64, "100", "1e300"},
	}
	for _, p := range pairs {
		ea, _ := c.Encode(p.d, p.a)
		eb, _ := c.Encode(p.d, p.b)
		if CompareEncodings(p.d, ea, eb) >= 0 {
			t.Errorf("%s: enc(%s) = %x should sort below enc(%s) = %x", p.d, p.a, ea, p.b, eb)
		}
	}
}

func TestEncoding_NegativeMagnitudeInversion(t *testing.T) {
	c := NewCodec()
	pairs := []struct {
		d    Domain
		a, b string // a < b < 0
	}{
		{Float32, "-10", "-1"},
		{Float32, "-Inf", "-1e30"},
		{Float64, "-100", "-1"},
		{Float64, "-1", "-0"},
	}
	for _, p := range pairs {
		ea, _ := c.Encode(p.d, p.a)
		eb, _ := c.Encode(p.d, p.b)
		if CompareEncodings(p.d, ea, eb) <= 0 {
			t.Errorf("%s: enc(%s) = %x should sort above enc(%s) = %x", p.d, p.a, ea, p.b, eb)
		}
	}
}

func TestEncoding_IntegersSigned(t *testing.T) {
	for _, d := range []Domain{Int32, Int64, Temporal} {
		neg := Value{domain: d, enc: Encoding(math.MaxUint64)} // -1
		pos := Value{domain: d, enc: 1}
		if CompareEncodings(d, neg.Encoding(), pos.Encoding()) >= 0 {
			t.Errorf("%s: -1 should sort below 1", d)
		}
	}
}

func TestSpecialsFor(t *testing.T) {
	s, ok := SpecialsFor(Float32)
	if !ok {
		t.Fatal("expected specials for float32")
	}
	if s.Zero != 0 || s.NegativeZero != 0x80000000 {
		t.Errorf("float32 zeros = %x/%x", s.Zero, s.NegativeZero)
	}
	if s.PositiveInfinity != 0x7f800000 || s.NegativeInfinity != 0xff800000 {
		t.Errorf("float32 infinities = %x/%x", s.PositiveInfinity, s.NegativeInfinity)
	}

	s, ok = SpecialsFor(Float64)
	if !ok {
		t.Fatal("expected specials for float64")
	}
	if s.NegativeZero != 1<<63 || s.PositiveInfinity != 0x7ff0000000000000 {
		t.Errorf("float64 specials = %+v", s)
	}

	for _, d := range []Domain{Int32, Int64, Temporal} {
		if _, ok := SpecialsFor(d); ok {
			t.Errorf("SpecialsFor(%s) ok = true, want false", d)
		}
	}
}

func TestFromEncoding_OutOfDomain(t *testing.T) {
	if _, err := FromEncoding(Int32, Encoding(1<<40)); !errors.Is(err, domain.ErrParse) {
		t.Errorf("int32 error = %v, want ErrParse", err)
	}
	if _, err := FromEncoding(Float32, Encoding(1<<40)); !errors.Is(err, domain.ErrParse) {
		t.Errorf("float32 error = %v, want ErrParse", err)
	}
	v, err := FromEncoding(Int32, Int32Value(-7).Encoding())
	if err != nil || v.Int64() != -7 {
		t.Errorf("FromEncoding(-7) = %v, %v", v, err)
	}
}

func TestValue_Compare(t *testing.T) {
	if Float64Value(math.Copysign(0, -1)).Compare(Float64Value(0)) != 0 {
		t.Error("-0 and +0 should compare equal")
	}
	if Int64Value(-3).Compare(Int64Value(2)) >= 0 {
		t.Error("-3 should compare below 2")
	}
	if Float32Value(-1).Compare(Float32Value(-2)) <= 0 {
		t.Error("-1 should compare above -2")
	}
}

func TestSortableBytes_Order(t *testing.T) {
	c := NewCodec()
	ordered := map[Domain][]string{
		Int32:    {"-2147483648", "-5", "-1", "0", "1", "2147483647"},
		Int64:    {"-9223372036854775808", "-1", "0", "9223372036854775807"},
		Float32:  {"-Inf", "-1e30", "-2", "-1", "-0", "0", "1e-30", "1", "Inf", "NaN"},
		Float64:  {"-Inf", "-100", "-1e-300", "-0", "0", "1e-300", "100", "Inf"},
		Temporal: {"1969-12-31T23:59:59Z", "1970-01-01T00:00:00Z", "2024-01-01T00:00:00Z"},
	}
	for d, texts := range ordered {
		terms := make([][]byte, 0, len(texts))
		for _, s := range texts {
			v, err := c.Parse(d, s)
			if err != nil {
				t.Fatalf("Parse(%s, %q): %v", d, s, err)
			}
			b := SortableBytes(v)
			if len(b) != d.Width()/8 {
				t.Errorf("%s: len(SortableBytes(%s)) = %d", d, s, len(b))
			}
			back, err := FromSortableBytes(d, b)
			if err != nil {
				t.Fatalf("FromSortableBytes(%s, %x): %v", d, b, err)
			}
			if back.Encoding() != v.Encoding() {
				t.Errorf("%s: sortable round trip of %s = %x, want %x", d, s, back.Encoding(), v.Encoding())
			}
			terms = append(terms, b)
		}
		if !sort.SliceIsSorted(terms, func(i, j int) bool { return bytes.Compare(terms[i], terms[j]) < 0 }) {
			t.Errorf("%s: sortable bytes not in numeric order: %x", d, terms)
		}
	}
}

func TestStoredBytes_RoundTrip(t *testing.T) {
	values := []Value{
		Int32Value(-123),
		Int64Value(1 << 40),
		Float32Value(-2.5),
		Float64Value(math.Inf(-1)),
		TemporalValue(1710510330123),
	}
	for _, v := range values {
		b := StoredBytes(v)
		if len(b) != v.Domain().Width()/8 {
			t.Errorf("%s: len(StoredBytes) = %d", v.Domain(), len(b))
		}
		back, err := FromStoredBytes(v.Domain(), b)
		if err != nil {
			t.Errorf("FromStoredBytes(%s): %v", v.Domain(), err)
			continue
		}
		if back != v {
			t.Errorf("stored round trip = %v, want %v", back, v)
		}
	}

	if _, err := FromStoredBytes(Int64, []byte{1, 2, 3}); !errors.Is(err, domain.ErrParse) {
		t.Errorf("short stored bytes error = %v, want ErrParse", err)
	}
}
