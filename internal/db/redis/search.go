package redis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/pointfield/internal/db"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
)

// SearchKeys runs FT.SEARCH with NOCONTENT and returns matching keys for one page.
func (s *Store) SearchKeys(ctx context.Context, q *db.KeyQuery) (*db.KeyResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	if q.Query == "" {
		return nil, errors.New("query is required")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, errors.New("offset and limit must not be negative")
	}

	args := []string{
		q.IndexName, q.Query,
		"NOCONTENT",
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	}
	raw, err := s.do(ctx, s.b().Arbitrary("FT.SEARCH").Args(args...).Build()).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseKeysResult(raw)
}

// [total, key1, key2, ...]
func parseKeysResult(raw []rueidis.RedisMessage) (*db.KeyResult, error) {
	if len(raw) == 0 {
		return &db.KeyResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	keys := make([]string, 0, len(raw)-1)
	for _, m := range raw[1:] {
		key, err := m.ToString()
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return &db.KeyResult{Total: int(total), Keys: keys}, nil
}

// RenderPointQuery translates a point query into FT.SEARCH numeric filter syntax.
func RenderPointQuery(q query.Query) (string, error) {
	switch pq := q.(type) {
	case query.PointExact:
		v := numericText(pq.Value())
		return numericFilter(pq.Field(), v, v), nil
	case query.PointSet:
		values := pq.Values()
		if len(values) == 0 {
			return "", fmt.Errorf("empty point set on %s: %w", pq.Field(), db.ErrUnsupportedQuery)
		}
		parts := make([]string, 0, len(values))
		for _, v := range values {
			t := numericText(v)
			parts = append(parts, numericFilter(pq.Field(), t, t))
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " | ") + ")", nil
	case query.PointRange:
		b := pq.Bounds()
		lo, hi := "-inf", "+inf"
		if b.Min != nil {
			lo = boundText(*b.Min, b.MinInclusive)
		}
		if b.Max != nil {
			hi = boundText(*b.Max, b.MaxInclusive)
		}
		return numericFilter(pq.Field(), lo, hi), nil
	default:
		return "", fmt.Errorf("%s query on %s: %w", q.Kind(), q.Field(), db.ErrUnsupportedQuery)
	}
}

func numericFilter(field, lo, hi string) string {
	return fmt.Sprintf("@%s:[%s %s]", escapeField(field), lo, hi)
}

func boundText(v numeric.Value, inclusive bool) string {
	if inclusive {
		return numericText(v)
	}
	return "(" + numericText(v)
}

// numericText renders v the way it is written into a hash field. Temporal
// values are epoch milliseconds.
func numericText(v numeric.Value) string {
	switch v.Domain() {
	case numeric.Float32, numeric.Float64:
		f := v.Float64()
		switch {
		case math.IsInf(f, 1):
			return "+inf"
		case math.IsInf(f, -1):
			return "-inf"
		}
		if v.Domain() == numeric.Float32 {
			return strconv.FormatFloat(f, 'g', -1, 32)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return strconv.FormatInt(v.Int64(), 10)
	}
}

func escapeField(s string) string {
	return fieldEscaper.Replace(s)
}

var fieldEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`.`, `\.`,
	`,`, `\,`,
	`/`, `\/`,
)
