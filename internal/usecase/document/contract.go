package document

import (
	"context"

	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/indexable"
)

// Writer persists and removes the representations of a document.
type Writer interface {
	Write(ctx context.Context, id string, fields []indexable.Field) error
	Delete(ctx context.Context, id string) error
}

// Snapshotter hands back the representations a writer currently holds for a
// document, so a failed fan-out can restore them.
type Snapshotter interface {
	Snapshot(ctx context.Context, id string) ([]indexable.Field, bool)
}

// StoredReader returns the stored bytes of a document, per field and value.
type StoredReader interface {
	Stored(ctx context.Context, id string) (map[string][][]byte, error)
}

// Materializer turns external values into representations and back.
type Materializer interface {
	CreateMultiValueFields(f field.Config, externals []string) ([]indexable.Field, error)
	StoredToReadable(f field.Config, stored []byte) (string, error)
}
