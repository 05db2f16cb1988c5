package numfield

import (
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
)

// StoredToReadable decodes a stored representation to external text.
func (s *Service) StoredToReadable(f field.Config, stored []byte) (string, error) {
	v, err := numeric.FromStoredBytes(f.Domain(), stored)
	if err != nil {
		return "", withField(err, f)
	}
	return v.String(), nil
}

// IndexedToReadable decodes a point term to external text.
func (s *Service) IndexedToReadable(f field.Config, term []byte) (string, error) {
	v, err := numeric.FromSortableBytes(f.Domain(), term)
	if err != nil {
		return "", withField(err, f)
	}
	return v.String(), nil
}

// ToExternal decodes a columnar encoding to external text.
func (s *Service) ToExternal(f field.Config, e numeric.Encoding) (string, error) {
	out, err := s.codec.Decode(f.Domain(), e)
	if err != nil {
		return "", withField(err, f)
	}
	return out, nil
}
