package numeric

import (
	"cmp"
	"math"
)

// Encoding is the fixed-width integer form of a value as kept by the doc-values store.
//
// Integer and temporal domains hold the two's complement value sign-extended to 64 bits.
// Floating domains hold the raw IEEE-754 bit pattern (zero-extended for float32). The
// pattern is not sign-complemented, so among negative floats a larger magnitude has a
// larger encoding.
type Encoding uint64

// Specials holds the encodings of the floating-point boundary values.
type Specials struct {
	Zero             Encoding
	NegativeZero     Encoding
	PositiveInfinity Encoding
	NegativeInfinity Encoding
}

var specials = map[Domain]Specials{
	Float32: {
		Zero:             Encoding(math.Float32bits(0)),
		NegativeZero:     Encoding(math.Float32bits(float32(math.Copysign(0, -1)))),
		PositiveInfinity: Encoding(math.Float32bits(float32(math.Inf(1)))),
		NegativeInfinity: Encoding(math.Float32bits(float32(math.Inf(-1)))),
	},
	Float64: {
		Zero:             Encoding(math.Float64bits(0)),
		NegativeZero:     Encoding(math.Float64bits(math.Copysign(0, -1))),
		PositiveInfinity: Encoding(math.Float64bits(math.Inf(1))),
		NegativeInfinity: Encoding(math.Float64bits(math.Inf(-1))),
	},
}

// SpecialsFor returns the boundary encodings of a floating domain.
// ok is false for integer and temporal domains.
func SpecialsFor(d Domain) (s Specials, ok bool) {
	s, ok = specials[d]
	return s, ok
}

// CompareEncodings orders two encodings of d the way the doc-values store does:
// as signed integers for integer and temporal domains, as unsigned bit patterns for
// floating domains.
func CompareEncodings(d Domain, a, b Encoding) int {
	if d.IsFloating() {
		return cmp.Compare(uint64(a), uint64(b))
	}
	return cmp.Compare(int64(a), int64(b))
}
