package pointfield

import (
	"context"
	"fmt"
)

// TypedIndex is a generic, schema-first index backed by a pointfield Client.
// Schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	client *Client
	meta   *schemaMeta
}

// NewIndex creates a Client whose schema is parsed from T's pointfield tags.
// opts may add backend options such as WithRedis; extra WithField options are
// declared after the tagged fields.
func NewIndex[T any](opts ...Option) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, err
	}
	client, err := New(append(meta.options(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}
	return &TypedIndex[T]{client: client, meta: meta}, nil
}

// Client returns the underlying untyped client.
func (idx *TypedIndex[T]) Client() *Client { return idx.client }

// Close releases the client.
func (idx *TypedIndex[T]) Close() { idx.client.Close() }

// Put creates or replaces a single item.
func (idx *TypedIndex[T]) Put(ctx context.Context, item T) error {
	id, values := idx.meta.toValues(item)
	if _, err := idx.client.Put(ctx, id, values); err != nil {
		return err
	}
	return nil
}

// Get retrieves a typed item by ID. Only stored fields are populated.
func (idx *TypedIndex[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	values, err := idx.client.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	v, err := idx.meta.fromValues(id, values)
	if err != nil {
		return zero, fmt.Errorf("get: %w", err)
	}
	item, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("get: type assertion failed")
	}
	return item, nil
}

// Delete removes an item by ID.
func (idx *TypedIndex[T]) Delete(ctx context.Context, id string) error {
	return idx.client.Delete(ctx, id)
}

// Item is a typed search hit.
type Item[T any] struct {
	Item      T
	SortValue string
}

// Search executes q and loads the stored fields of every hit.
func (idx *TypedIndex[T]) Search(ctx context.Context, q *Query) ([]Item[T], error) {
	res, err := idx.client.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	items := make([]Item[T], 0, len(res.Hits))
	for _, h := range res.Hits {
		item, err := idx.Get(ctx, h.ID)
		if err != nil {
			return nil, fmt.Errorf("load hit %s: %w", h.ID, err)
		}
		items = append(items, Item[T]{Item: item, SortValue: h.SortValue})
	}
	return items, nil
}
