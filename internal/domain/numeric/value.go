package numeric

import (
	"cmp"
	"math"
	"strconv"
	"time"

	"github.com/kailas-cloud/pointfield/internal/datemath"
	"github.com/kailas-cloud/pointfield/internal/domain"
)

// Value is a number tagged with its domain. The zero Value is invalid.
type Value struct {
	domain Domain
	enc    Encoding
}

// Int32Value wraps a 32-bit integer.
func Int32Value(v int32) Value { return Value{domain: Int32, enc: Encoding(uint64(int64(v)))} }

// Int64Value wraps a 64-bit integer.
func Int64Value(v int64) Value { return Value{domain: Int64, enc: Encoding(uint64(v))} }

// Float32Value wraps a single-precision float.
func Float32Value(v float32) Value { return Value{domain: Float32, enc: Encoding(math.Float32bits(v))} }

// Float64Value wraps a double-precision float.
func Float64Value(v float64) Value { return Value{domain: Float64, enc: Encoding(math.Float64bits(v))} }

// TemporalValue wraps an instant given in milliseconds since the Unix epoch.
func TemporalValue(ms int64) Value { return Value{domain: Temporal, enc: Encoding(uint64(ms))} }

// TimeValue wraps an instant, truncated to milliseconds.
func TimeValue(t time.Time) Value { return TemporalValue(t.UnixMilli()) }

// FromEncoding rebuilds a Value from its encoding.
func FromEncoding(d Domain, e Encoding) (Value, error) {
	switch d {
	case Int32:
		n := int64(e)
		if n < math.MinInt32 || n > math.MaxInt32 {
			return Value{}, domain.NewParseError(string(d), strconv.FormatUint(uint64(e), 16), strconv.ErrRange)
		}
	case Float32:
		if uint64(e)>>32 != 0 {
			return Value{}, domain.NewParseError(string(d), strconv.FormatUint(uint64(e), 16), strconv.ErrRange)
		}
	case Int64, Float64, Temporal:
	default:
		return Value{}, domain.NewInternalConsistencyError("unknown numeric domain " + strconv.Quote(string(d)))
	}
	return Value{domain: d, enc: e}, nil
}

// Domain returns the value's domain.
func (v Value) Domain() Domain { return v.domain }

// Encoding returns the doc-values encoding of v.
func (v Value) Encoding() Encoding { return v.enc }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.domain.Valid() }

// Int64 returns the value as an integer. Floating values are truncated.
func (v Value) Int64() int64 {
	if v.domain.IsFloating() {
		return int64(v.Float64())
	}
	return int64(v.enc)
}

// Float64 returns the value as a float64.
func (v Value) Float64() float64 {
	switch v.domain {
	case Float32:
		return float64(math.Float32frombits(uint32(v.enc)))
	case Float64:
		return math.Float64frombits(uint64(v.enc))
	default:
		return float64(int64(v.enc))
	}
}

// IsNaN reports whether v is a floating NaN.
func (v Value) IsNaN() bool {
	return v.domain.IsFloating() && math.IsNaN(v.Float64())
}

// Time returns a temporal value as a UTC time.
func (v Value) Time() time.Time {
	return time.UnixMilli(int64(v.enc)).UTC()
}

// Compare orders v and o numerically. Both must share a domain. For floating domains
// -0 and +0 compare equal and NaN sorts before every other value.
func (v Value) Compare(o Value) int {
	if v.domain.IsFloating() {
		return cmp.Compare(v.Float64(), o.Float64())
	}
	return cmp.Compare(int64(v.enc), int64(o.enc))
}

// String formats v in its domain's textual syntax.
func (v Value) String() string {
	switch v.domain {
	case Int32, Int64:
		return strconv.FormatInt(int64(v.enc), 10)
	case Float32:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case Temporal:
		return datemath.FormatMillis(int64(v.enc))
	default:
		return "<invalid>"
	}
}
