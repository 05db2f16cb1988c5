package pointfield

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pointfield/internal/db/memory"
	dbRedis "github.com/kailas-cloud/pointfield/internal/db/redis"
	domdoc "github.com/kailas-cloud/pointfield/internal/domain/document"
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/schema"
	documentuc "github.com/kailas-cloud/pointfield/internal/usecase/document"
	healthuc "github.com/kailas-cloud/pointfield/internal/usecase/health"
	"github.com/kailas-cloud/pointfield/internal/usecase/numfield"
	searchuc "github.com/kailas-cloud/pointfield/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the pointfield SDK entry point. It indexes documents in process and,
// with WithRedis, mirrors them to Redis.
type Client struct {
	schema    schema.Schema
	store     *dbRedis.Store
	docSvc    *documentuc.Service
	searchSvc *searchuc.Service
	healthSvc *healthuc.Service
	obs       *observer
}

// New creates a Client. At least one field must be declared with WithField.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{name: "default", driver: "memory"}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	sc, err := buildSchema(cfg.name, cfg.fields)
	if err != nil {
		return nil, fmt.Errorf("pointfield: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	index := memory.New()
	fields := numfield.New(nil, index.Points(), index.Columns(),
		numfield.WithObserver(numfield.LogObserver(cfg.logger)))

	c := &Client{schema: sc, obs: obs}
	writers := []documentuc.Writer{index}
	var (
		stored documentuc.StoredReader = index
		remote searchuc.RemoteExecutor
		ping   healthuc.Pinger
	)

	switch cfg.driver {
	case "memory":
	case "redis":
		docs, err := c.connectRedis(cfg, sc)
		if err != nil {
			return nil, err
		}
		writers = append(writers, docs)
		stored, remote, ping = docs, docs, docs
	default:
		return nil, fmt.Errorf("pointfield: unknown driver %q", cfg.driver)
	}

	c.docSvc = documentuc.New(sc, fields, stored, cfg.logger, writers...)
	c.searchSvc = searchuc.New(sc, fields, searchuc.NewRouter(index, remote), index, cfg.logger)
	if cfg.defaultLimit > 0 && cfg.maxLimit > 0 {
		c.searchSvc = c.searchSvc.WithLimits(cfg.defaultLimit, cfg.maxLimit)
	}
	c.healthSvc = healthuc.New(index, ping)
	return c, nil
}

func (c *Client) connectRedis(cfg *clientConfig, sc schema.Schema) (*dbRedis.Documents, error) {
	if len(cfg.addrs) == 0 {
		return nil, errors.New("pointfield: redis address required")
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("pointfield: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("pointfield: redis not ready: %w", err)
	}

	indexName, prefix := cfg.indexName, cfg.keyPrefix
	if indexName == "" {
		indexName = "pointfield:" + sc.Name()
	}
	if prefix == "" {
		prefix = "pointfield:"
	}
	docs := dbRedis.NewDocuments(store, sc, indexName, prefix)
	if err := docs.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("pointfield: ensure index: %w", err)
	}
	c.store = store
	return docs, nil
}

func buildSchema(name string, infos []FieldInfo) (schema.Schema, error) {
	if len(infos) == 0 {
		return schema.Schema{}, errors.New("at least one field is required (use WithField)")
	}
	fields := make([]field.Config, 0, len(infos))
	for _, info := range infos {
		d, err := numeric.ParseDomain(string(info.Type))
		if err != nil {
			return schema.Schema{}, fmt.Errorf("field %q: %w", info.Name, err)
		}
		f, err := field.New(info.Name, d, field.Flags{
			Indexed:     info.Has(Indexed),
			Stored:      info.Has(Stored),
			DocValues:   info.Has(DocValues),
			MultiValued: info.Has(MultiValued),
		})
		if err != nil {
			return schema.Schema{}, err
		}
		fields = append(fields, f)
	}
	sc, err := schema.New(name, fields)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("schema: %w", err)
	}
	return sc, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping fails when the index is unusable. A failing Redis backend is only
// reported as degraded and does not fail Ping.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	report := c.healthSvc.Check(ctx)
	if report.Status == healthuc.Unhealthy {
		return fmt.Errorf("ping: index unhealthy: %v", report.Checks)
	}
	return nil
}

// Fields returns the declared fields.
func (c *Client) Fields() []FieldInfo {
	out := make([]FieldInfo, 0, c.schema.Len())
	for _, f := range c.schema.Fields() {
		info := FieldInfo{Name: f.Name(), Type: FieldType(f.Domain())}
		if f.Indexed() {
			info.Flags |= Indexed
		}
		if f.Stored() {
			info.Flags |= Stored
		}
		if f.HasDocValues() {
			info.Flags |= DocValues
		}
		if f.MultiValued() {
			info.Flags |= MultiValued
		}
		out = append(out, info)
	}
	return out
}

// Put replaces document id. values holds the textual values of each field.
// It returns the number of representations indexed.
func (c *Client) Put(ctx context.Context, id string, values map[string][]string) (_ int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("put", start, err) }()

	doc, err := domdoc.New(id, values)
	if err != nil {
		return 0, fmt.Errorf("put: %w", err)
	}
	n, err := c.docSvc.Put(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("put: %w", err)
	}
	return n, nil
}

// Get returns the stored values of id. Fields that are not stored are absent.
func (c *Client) Get(ctx context.Context, id string) (_ map[string][]string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	doc, err := c.docSvc.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return doc.Fields(), nil
}

// Delete removes id.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	if err = c.docSvc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
