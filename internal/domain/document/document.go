// Package document holds the document aggregate: an ID plus external values per field.
package document

import (
	"fmt"
	"regexp"
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	reservedIDs = map[string]bool{"search": true, "fields": true}
)

// MaxValuesPerField bounds the values accepted for a single field.
const MaxValuesPerField = 1024

// Document is the document aggregate (immutable value object).
type Document struct {
	id     string
	fields map[string][]string
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars, not reserved. Fields: at least one, each with
// 1-1024 values. Values are parsed against the schema in the service layer.
func New(id string, fields map[string][]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if reservedIDs[id] {
		return Document{}, fmt.Errorf("document ID %q is reserved", id)
	}
	if len(fields) == 0 {
		return Document{}, fmt.Errorf("fields are required")
	}
	for name, values := range fields {
		if len(values) == 0 {
			return Document{}, fmt.Errorf("field %q has no values", name)
		}
		if len(values) > MaxValuesPerField {
			return Document{}, fmt.Errorf("field %q has too many values (max %d)", name, MaxValuesPerField)
		}
	}
	return Document{id: id, fields: cloneFields(fields)}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id string, fields map[string][]string) Document {
	return Document{id: id, fields: fields}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Fields returns the external values keyed by field name.
func (d *Document) Fields() map[string][]string { return d.fields }

// Values returns the external values of one field.
func (d *Document) Values(name string) []string { return d.fields[name] }

func cloneFields(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	c := make(map[string][]string, len(m))
	for k, v := range m {
		c[k] = append([]string(nil), v...)
	}
	return c
}
