package numeric

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/kailas-cloud/pointfield/internal/domain"
)

const (
	signBit32 = uint32(1) << 31
	signBit64 = uint64(1) << 63
)

// SortableBytes returns the point-index term of v: big-endian bytes whose unsigned
// lexicographic order is the numeric order of the values. For floats -0 sorts
// immediately before +0 and NaN after +Inf.
func SortableBytes(v Value) []byte {
	switch v.domain {
	case Int32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(v.enc)^signBit32)
		return b
	case Float32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, sortableFloat32(uint32(v.enc)))
		return b
	case Float64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, sortableFloat64(uint64(v.enc)))
		return b
	default:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(v.enc)^signBit64)
		return b
	}
}

// FromSortableBytes is the inverse of SortableBytes.
func FromSortableBytes(d Domain, b []byte) (Value, error) {
	if !d.Valid() {
		return Value{}, domain.NewInternalConsistencyError(fmt.Sprintf("unknown numeric domain %q", d))
	}
	if len(b) != d.Width()/8 {
		return Value{}, domain.NewParseError(string(d), fmt.Sprintf("%x", b),
			fmt.Errorf("term length %d, want %d", len(b), d.Width()/8))
	}
	switch d {
	case Int32:
		return Int32Value(int32(binary.BigEndian.Uint32(b) ^ signBit32)), nil
	case Float32:
		return Float32Value(math.Float32frombits(unsortableFloat32(binary.BigEndian.Uint32(b)))), nil
	case Float64:
		return Float64Value(math.Float64frombits(unsortableFloat64(binary.BigEndian.Uint64(b)))), nil
	case Int64:
		return Int64Value(int64(binary.BigEndian.Uint64(b) ^ signBit64)), nil
	default:
		return TemporalValue(int64(binary.BigEndian.Uint64(b) ^ signBit64)), nil
	}
}

// Negative floats flip every bit, non-negative ones only the sign bit.
func sortableFloat32(bits uint32) uint32 {
	if bits&signBit32 != 0 {
		return ^bits
	}
	return bits | signBit32
}

func unsortableFloat32(u uint32) uint32 {
	if u&signBit32 != 0 {
		return u &^ signBit32
	}
	return ^u
}

func sortableFloat64(bits uint64) uint64 {
	if bits&signBit64 != 0 {
		return ^bits
	}
	return bits | signBit64
}

func unsortableFloat64(u uint64) uint64 {
	if u&signBit64 != 0 {
		return u &^ signBit64
	}
	return ^u
}
