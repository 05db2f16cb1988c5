package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/pointfield/internal/db"
	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/indexable"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
	"github.com/kailas-cloud/pointfield/internal/domain/schema"
)

const (
	storedFieldPrefix = "__stored:"
	idField           = "__id"
	defaultPageSize   = 1000

	// Hash recording the definition each FT index was created from. Kept
	// outside any document prefix.
	indexMetaPrefix = "__index:"
	definitionField = "definition"

	// Largest integer magnitude a double holds exactly.
	maxExactInt = 1 << 53
)

type documentStore interface {
	db.Pinger
	db.HashStore
	db.IndexManager
	db.PointSearcher
}

// Documents keeps field representations in Redis hashes, one hash per document.
// Point representations of single-valued fields become NUMERIC hash fields so
// FT.SEARCH can answer point queries. Stored representations are kept as raw
// big-endian bytes, concatenated for multi-valued fields.
type Documents struct {
	store    documentStore
	schema   schema.Schema
	index    string
	prefix   string
	pageSize int
}

// NewDocuments creates a hash-backed document adapter for sc.
func NewDocuments(store documentStore, sc schema.Schema, index, prefix string) *Documents {
	return &Documents{
		store:    store,
		schema:   sc,
		index:    index,
		prefix:   prefix,
		pageSize: defaultPageSize,
	}
}

// IndexDefinition returns the FT index covering every searchable field, or nil
// when no field of the schema can be searched remotely.
func (d *Documents) IndexDefinition() (*db.IndexDefinition, error) {
	b := db.NewIndex(d.index).Prefix(d.prefix)
	n := 0
	for _, f := range d.schema.Fields() {
		if !f.Indexed() || f.MultiValued() {
			continue
		}
		if f.HasDocValues() {
			b.NumericSortable(f.Name())
		} else {
			b.Numeric(f.Name())
		}
		n++
	}
	if n == 0 {
		return nil, nil
	}
	return b.Build()
}

// EnsureIndex creates the FT index, or rebuilds it when the definition recorded
// for the live index differs from the current schema. Dropping keeps document
// hashes, so the recreated index rescans them.
func (d *Documents) EnsureIndex(ctx context.Context) error {
	def, err := d.IndexDefinition()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	exists, err := d.store.IndexExists(ctx, d.index)
	if err != nil {
		return fmt.Errorf("inspect index %s: %w", d.index, err)
	}
	if !exists && def == nil {
		return nil
	}

	meta := indexMetaPrefix + d.index
	if exists {
		if def != nil {
			recorded, err := d.store.HGetAll(ctx, meta)
			if err != nil {
				return fmt.Errorf("read index definition %s: %w", d.index, err)
			}
			if recorded[definitionField] == def.String() {
				return nil
			}
		}
		if err := d.store.DropIndex(ctx, d.index); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index %s: %w", d.index, err)
		}
	}

	if def == nil {
		if err := d.store.Del(ctx, meta); err != nil {
			return fmt.Errorf("clear index definition %s: %w", d.index, err)
		}
		return nil
	}
	if err := d.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", d.index, err)
	}
	if err := d.store.HSet(ctx, meta, map[string]string{definitionField: def.String()}); err != nil {
		return fmt.Errorf("record index definition %s: %w", d.index, err)
	}
	return nil
}

// Write replaces the hash of id with fields.
func (d *Documents) Write(ctx context.Context, id string, fields []indexable.Field) error {
	hash := map[string]string{idField: id}
	for _, f := range fields {
		switch f.Kind() {
		case indexable.Point:
			cfg, err := d.schema.Field(f.Name())
			if err != nil {
				return err
			}
			if cfg.MultiValued() {
				continue
			}
			hash[f.Name()] = numericText(f.Value())
		case indexable.Stored:
			hash[storedFieldPrefix+f.Name()] += string(f.Bytes())
		}
	}

	key := d.key(id)
	if err := d.store.Del(ctx, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	if err := d.store.HSet(ctx, key, hash); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the hash of id.
func (d *Documents) Delete(ctx context.Context, id string) error {
	key := d.key(id)
	ok, err := d.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check %s: %w", key, err)
	}
	if !ok {
		return domain.ErrDocumentNotFound
	}
	if err := d.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Stored returns the stored bytes of id per field, one slice per value.
func (d *Documents) Stored(ctx context.Context, id string) (map[string][][]byte, error) {
	key := d.key(id)
	hash, err := d.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(hash) == 0 {
		return nil, domain.ErrDocumentNotFound
	}

	out := make(map[string][][]byte)
	for k, raw := range hash {
		name, ok := strings.CutPrefix(k, storedFieldPrefix)
		if !ok {
			continue
		}
		f, err := d.schema.Field(name)
		if err != nil {
			continue
		}
		width := f.Domain().Width() / 8
		if len(raw)%width != 0 {
			return nil, domain.NewInternalConsistencyError(
				fmt.Sprintf("stored %s of %s has %d bytes, not a multiple of %d", name, key, len(raw), width))
		}
		for i := 0; i < len(raw); i += width {
			out[name] = append(out[name], []byte(raw[i:i+width]))
		}
	}
	return out, nil
}

// Supports reports whether q can be answered by FT.SEARCH with the same result
// as the in-process index.
func (d *Documents) Supports(q query.Query) bool {
	f, err := d.schema.Field(q.Field())
	if err != nil || !f.Indexed() || f.MultiValued() {
		return false
	}
	switch pq := q.(type) {
	case query.PointExact:
		return representable(pq.Value())
	case query.PointSet:
		for _, v := range pq.Values() {
			if !representable(v) {
				return false
			}
		}
		return len(pq.Values()) > 0
	case query.PointRange:
		b := pq.Bounds()
		return (b.Min == nil || representable(*b.Min)) && (b.Max == nil || representable(*b.Max))
	default:
		return false
	}
}

// representable reports whether v survives the round trip through a NUMERIC
// field, which holds doubles. Signed zeros are excluded: NUMERIC treats -0 and
// +0 as one value while the local index keeps them as distinct terms.
func representable(v numeric.Value) bool {
	switch v.Domain() {
	case numeric.Float32, numeric.Float64:
		return !v.IsNaN() && v.Float64() != 0
	case numeric.Int64, numeric.Temporal:
		n := v.Int64()
		return n >= -maxExactInt && n <= maxExactInt
	default:
		return true
	}
}

// Execute runs q through FT.SEARCH and returns matching document ids.
func (d *Documents) Execute(ctx context.Context, q query.Query) ([]string, error) {
	filter, err := RenderPointQuery(q)
	if err != nil {
		return nil, err
	}

	var ids []string
	for offset := 0; ; offset += d.pageSize {
		res, err := d.store.SearchKeys(ctx, &db.KeyQuery{
			IndexName: d.index,
			Query:     filter,
			Offset:    offset,
			Limit:     d.pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", d.index, err)
		}
		for _, k := range res.Keys {
			ids = append(ids, strings.TrimPrefix(k, d.prefix))
		}
		if len(res.Keys) < d.pageSize || offset+len(res.Keys) >= res.Total {
			return ids, nil
		}
	}
}

// Ping checks the underlying store.
func (d *Documents) Ping(ctx context.Context) error {
	return d.store.Ping(ctx)
}

func (d *Documents) key(id string) string {
	return d.prefix + id
}
