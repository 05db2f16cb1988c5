package search

import (
	"context"

	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
	"github.com/kailas-cloud/pointfield/internal/domain/selector"
)

// Executor runs a query and returns matching document ids.
type Executor interface {
	Execute(ctx context.Context, q query.Query) ([]string, error)
}

// RemoteExecutor is an Executor that answers only some queries.
type RemoteExecutor interface {
	Executor
	Supports(q query.Query) bool
}

// Ordinals resolves document ids to their dense ordinals.
type Ordinals interface {
	Ordinal(id string) (uint32, bool)
}

// QueryBuilder builds queries and value sources for numeric fields.
type QueryBuilder interface {
	ExactQuery(f field.Config, external string) (query.Query, error)
	SetQuery(f field.Config, externals []string) (query.Query, error)
	RangeQuery(f field.Config, minExt, maxExt *string, minInclusive, maxInclusive bool) (query.Query, error)
	FieldQuery(f field.Config, external string) (query.Query, error)
	SelectValueSource(f field.Config, t selector.Type) (selector.ValueSource, error)
}
