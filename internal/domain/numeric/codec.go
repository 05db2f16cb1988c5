package numeric

import (
	"strconv"

	"github.com/kailas-cloud/pointfield/internal/datemath"
	"github.com/kailas-cloud/pointfield/internal/domain"
)

// TemporalParser converts a date or date-math expression to epoch milliseconds.
type TemporalParser interface {
	ParseMillis(expr string) (int64, error)
}

// Codec parses and formats external values. It is immutable and safe for concurrent use.
type Codec struct {
	temporal TemporalParser
}

// Option configures a Codec.
type Option func(*Codec)

// WithTemporalParser replaces the default date-math parser.
func WithTemporalParser(p TemporalParser) Option {
	return func(c *Codec) {
		c.temporal = p
	}
}

// NewCodec creates a Codec.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{temporal: datemath.NewParser()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Parse reads external in the grammar of d.
func (c *Codec) Parse(d Domain, external string) (Value, error) {
	switch d {
	case Int32:
		n, err := strconv.ParseInt(external, 10, 32)
		if err != nil {
			return Value{}, domain.NewParseError(string(d), external, err)
		}
		return Int32Value(int32(n)), nil
	case Int64:
		n, err := strconv.ParseInt(external, 10, 64)
		if err != nil {
			return Value{}, domain.NewParseError(string(d), external, err)
		}
		return Int64Value(n), nil
	case Float32:
		f, err := strconv.ParseFloat(external, 32)
		if err != nil {
			return Value{}, domain.NewParseError(string(d), external, err)
		}
		return Float32Value(float32(f)), nil
	case Float64:
		f, err := strconv.ParseFloat(external, 64)
		if err != nil {
			return Value{}, domain.NewParseError(string(d), external, err)
		}
		return Float64Value(f), nil
	case Temporal:
		ms, err := c.temporal.ParseMillis(external)
		if err != nil {
			return Value{}, domain.NewParseError(string(d), external, err)
		}
		return TemporalValue(ms), nil
	default:
		return Value{}, domain.NewInternalConsistencyError("unknown numeric domain " + strconv.Quote(string(d)))
	}
}

// Encode parses external and returns its doc-values encoding.
func (c *Codec) Encode(d Domain, external string) (Encoding, error) {
	v, err := c.Parse(d, external)
	if err != nil {
		return 0, err
	}
	return v.Encoding(), nil
}

// Decode is the inverse of Encode.
func (c *Codec) Decode(d Domain, e Encoding) (string, error) {
	v, err := FromEncoding(d, e)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
