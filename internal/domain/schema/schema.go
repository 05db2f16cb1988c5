// Package schema holds the set of numeric field configurations loaded at startup.
package schema

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/field"
)

// MaxFields is the largest number of fields a schema may declare.
const MaxFields = 64

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Schema is an immutable, name-addressed set of field configurations.
type Schema struct {
	name   string
	fields []field.Config
	byName map[string]int
}

// New validates and creates a Schema.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Fields: unique names, max 64.
func New(name string, fields []field.Config) (Schema, error) {
	if name == "" {
		return Schema{}, fmt.Errorf("schema name is required")
	}
	if len(name) > 64 {
		return Schema{}, fmt.Errorf("schema name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return Schema{}, fmt.Errorf("schema name must be alphanumeric with underscores and hyphens")
	}
	if len(fields) > MaxFields {
		return Schema{}, fmt.Errorf("too many fields (max %d)", MaxFields)
	}
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := byName[f.Name()]; dup {
			return Schema{}, fmt.Errorf("duplicate field name: %s", f.Name())
		}
		byName[f.Name()] = i
	}
	cp := make([]field.Config, len(fields))
	copy(cp, fields)
	return Schema{name: name, fields: cp, byName: byName}, nil
}

// Name returns the schema name.
func (s Schema) Name() string { return s.name }

// Fields returns the field configurations in declaration order.
func (s Schema) Fields() []field.Config {
	cp := make([]field.Config, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Field looks up a field by name. A miss wraps domain.ErrFieldNotFound.
func (s Schema) Field(name string) (field.Config, error) {
	i, ok := s.byName[name]
	if !ok {
		return field.Config{}, fmt.Errorf("%q: %w", name, domain.ErrFieldNotFound)
	}
	return s.fields[i], nil
}

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.fields) }
