// Package numeric converts typed numeric values between their textual form and the
// fixed-width encodings used by the point index, the doc-values store and stored fields.
package numeric

import "fmt"

// Domain is the value type of a numeric field.
type Domain string

// Domain constants.
const (
	Int32    Domain = "int32"
	Int64    Domain = "int64"
	Float32  Domain = "float32"
	Float64  Domain = "float64"
	Temporal Domain = "date"
)

// Domains lists every supported domain.
var Domains = []Domain{Int32, Int64, Float32, Float64, Temporal}

// ParseDomain validates a domain name.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown numeric type %q", s)
	}
	return d, nil
}

// Valid reports whether d is one of the supported domains.
func (d Domain) Valid() bool {
	switch d {
	case Int32, Int64, Float32, Float64, Temporal:
		return true
	}
	return false
}

// IsFloating reports whether encodings of d are raw IEEE-754 bit patterns.
func (d Domain) IsFloating() bool {
	return d == Float32 || d == Float64
}

// Width returns the encoding width in bits.
func (d Domain) Width() int {
	if d == Int32 || d == Float32 {
		return 32
	}
	return 64
}

func (d Domain) String() string { return string(d) }
