package numeric

import (
	"encoding/binary"
	"fmt"

	"github.com/kailas-cloud/pointfield/internal/domain"
)

// StoredBytes returns the verbatim stored form of v: the encoding in big-endian
// order, 4 bytes wide for 32-bit domains and 8 bytes otherwise.
func StoredBytes(v Value) []byte {
	if v.domain.Width() == 32 {
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(v.enc))
		return b
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v.enc))
	return b
}

// FromStoredBytes is the inverse of StoredBytes.
func FromStoredBytes(d Domain, b []byte) (Value, error) {
	if !d.Valid() {
		return Value{}, domain.NewInternalConsistencyError(fmt.Sprintf("unknown numeric domain %q", d))
	}
	if len(b) != d.Width()/8 {
		return Value{}, domain.NewParseError(string(d), fmt.Sprintf("%x", b),
			fmt.Errorf("stored length %d, want %d", len(b), d.Width()/8))
	}
	switch d {
	case Int32:
		return Int32Value(int32(binary.BigEndian.Uint32(b))), nil
	case Float32:
		return Value{domain: Float32, enc: Encoding(binary.BigEndian.Uint32(b))}, nil
	default:
		return Value{domain: d, enc: Encoding(binary.BigEndian.Uint64(b))}, nil
	}
}
