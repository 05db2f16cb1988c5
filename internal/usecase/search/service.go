package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
	"github.com/kailas-cloud/pointfield/internal/domain/schema"
	"github.com/kailas-cloud/pointfield/internal/metrics"
)

// Service builds numeric queries against a schema, routes them to a backend and
// orders the hits.
type Service struct {
	schema       schema.Schema
	builder      QueryBuilder
	router       *Router
	ordinals     Ordinals
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

// New creates a search service.
func New(sc schema.Schema, builder QueryBuilder, router *Router, ordinals Ordinals, logger *zap.Logger) *Service {
	return &Service{
		schema:       sc,
		builder:      builder,
		router:       router,
		ordinals:     ordinals,
		logger:       logger,
		defaultLimit: 100,
		maxLimit:     10000,
	}
}

// WithLimits configures hit limits.
func (s *Service) WithLimits(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// Search executes req.
func (s *Service) Search(ctx context.Context, req *Request) (Result, error) {
	res, err := s.search(ctx, req)
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues(errorType(err)).Inc()
		return Result{}, err
	}
	return res, nil
}

func (s *Service) search(ctx context.Context, req *Request) (Result, error) {
	q, err := s.build(req)
	if err != nil {
		return Result{}, err
	}

	exec, backend := s.router.Route(q)
	start := time.Now()
	ids, err := exec.Execute(ctx, q)
	metrics.QueryDuration.WithLabelValues(string(req.Op), backend).Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Query execution failed",
			zap.String("query", q.String()),
			zap.String("backend", backend),
			zap.Error(err),
		)
		return Result{}, fmt.Errorf("execute %s: %w", q.Kind(), err)
	}

	path := executionPath(q.Kind())
	metrics.QueriesTotal.WithLabelValues(path, string(q.Domain())).Inc()

	hits, err := s.order(ids, req.Sort, req.Field)
	if err != nil {
		return Result{}, err
	}
	total := len(hits)
	if limit := s.limit(req.Limit); len(hits) > limit {
		hits = hits[:limit]
	}

	s.logger.Debug("Query executed",
		zap.String("query", q.String()),
		zap.String("backend", backend),
		zap.Int("total", total),
	)
	return Result{Query: q.String(), Path: path, Backend: backend, Total: total, Hits: hits}, nil
}

func (s *Service) build(req *Request) (query.Query, error) {
	f, err := s.schema.Field(req.Field)
	if err != nil {
		return nil, err
	}
	switch req.Op {
	case OpExact:
		return s.builder.ExactQuery(f, req.Value)
	case OpSet:
		return s.builder.SetQuery(f, req.Values)
	case OpRange:
		return s.builder.RangeQuery(f, req.Min, req.Max, req.MinInclusive, req.MaxInclusive)
	case OpField:
		return s.builder.FieldQuery(f, req.Value)
	default:
		return nil, domain.NewConfigurationError(req.Field, fmt.Sprintf("unknown query op %q", req.Op))
	}
}

type rankedHit struct {
	Hit
	ord   uint32
	value numeric.Value
	has   bool
}

// order sorts ids by ordinal, or by the selected sort value with missing
// values last and ordinal as tie-breaker. The sort field defaults to the
// queried one.
func (s *Service) order(ids []string, sort *Sort, queried string) ([]Hit, error) {
	ranked := make([]rankedHit, 0, len(ids))
	for _, id := range ids {
		ord, ok := s.ordinals.Ordinal(id)
		if !ok {
			continue // deleted between execution and ranking
		}
		ranked = append(ranked, rankedHit{Hit: Hit{ID: id}, ord: ord})
	}

	if sort != nil {
		name := sort.Field
		if name == "" {
			name = queried
		}
		f, err := s.schema.Field(name)
		if err != nil {
			return nil, err
		}
		src, err := s.builder.SelectValueSource(f, sort.Selector)
		if err != nil {
			return nil, err
		}
		for i := range ranked {
			if v, ok := src.Value(ranked[i].ord); ok {
				ranked[i].value, ranked[i].has = v, true
				ranked[i].SortValue = v.String()
			}
		}
	}

	slices.SortFunc(ranked, func(a, b rankedHit) int {
		if sort != nil {
			switch {
			case a.has && !b.has:
				return -1
			case !a.has && b.has:
				return 1
			case a.has && b.has:
				c := a.value.Compare(b.value)
				if sort.Descending {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
		}
		switch {
		case a.ord < b.ord:
			return -1
		case a.ord > b.ord:
			return 1
		}
		return 0
	})

	hits := make([]Hit, len(ranked))
	for i, r := range ranked {
		hits[i] = r.Hit
	}
	return hits, nil
}

func (s *Service) limit(n int) int {
	if n <= 0 {
		return s.defaultLimit
	}
	return min(n, s.maxLimit)
}

func executionPath(k query.Kind) string {
	switch k {
	case query.KindDocValuesRange:
		return "docvalues"
	case query.KindFunctionRange:
		return "function"
	default:
		return "point"
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrParse):
		return "parse"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	case errors.Is(err, domain.ErrUnsupportedSelector):
		return "unsupported_selector"
	case errors.Is(err, domain.ErrFieldNotFound):
		return "field_not_found"
	default:
		return "internal"
	}
}
