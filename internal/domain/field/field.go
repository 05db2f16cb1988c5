// Package field describes how a numeric field is indexed, stored and kept in doc values.
package field

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
)

// MaxNameLength is the longest accepted field name.
const MaxNameLength = 64

var reservedFieldNames = map[string]bool{
	"id": true, "_id": true, "score": true,
}

// Flags are the storage capabilities of a field.
type Flags struct {
	Indexed     bool
	Stored      bool
	DocValues   bool
	MultiValued bool
}

// Config is an immutable value object describing a numeric field.
type Config struct {
	name   string
	domain numeric.Domain
	flags  Flags
}

// New validates and creates a Config.
// Name must be non-empty, max 64 chars, free of whitespace and not reserved.
// Names starting with "__" are reserved for storage bookkeeping.
// Domain must be one of numeric.Domains.
func New(name string, d numeric.Domain, flags Flags) (Config, error) {
	if name == "" {
		return Config{}, fmt.Errorf("field name is required")
	}
	if len(name) > MaxNameLength {
		return Config{}, fmt.Errorf("field name %q too long (max %d)", name, MaxNameLength)
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return Config{}, fmt.Errorf("field name %q contains whitespace", name)
	}
	if reservedFieldNames[name] || strings.HasPrefix(name, "__") {
		return Config{}, fmt.Errorf("field name %q is reserved", name)
	}
	if !d.Valid() {
		return Config{}, fmt.Errorf("invalid field type %q for %q", d, name)
	}
	return Config{name: name, domain: d, flags: flags}, nil
}

// Reconstruct creates a Config without validation (storage hydration).
func Reconstruct(name string, d numeric.Domain, flags Flags) Config {
	return Config{name: name, domain: d, flags: flags}
}

// Name returns the field name.
func (c Config) Name() string { return c.name }

// Domain returns the field's value domain.
func (c Config) Domain() numeric.Domain { return c.domain }

// Flags returns a copy of the field's capabilities.
func (c Config) Flags() Flags { return c.flags }

// Indexed reports whether values go to the point index.
func (c Config) Indexed() bool { return c.flags.Indexed }

// Stored reports whether a verbatim copy is kept.
func (c Config) Stored() bool { return c.flags.Stored }

// HasDocValues reports whether the field has a columnar value per document.
func (c Config) HasDocValues() bool { return c.flags.DocValues }

// MultiValued reports whether a document may carry several values.
func (c Config) MultiValued() bool { return c.flags.MultiValued }

// Used reports whether the field produces any representation at all.
func (c Config) Used() bool {
	return c.flags.Indexed || c.flags.Stored || c.flags.DocValues
}

// String renders the field as name{domain,flags...} for logs and query descriptions.
func (c Config) String() string {
	var b strings.Builder
	b.WriteString(c.name)
	b.WriteByte('{')
	b.WriteString(string(c.domain))
	for _, f := range []struct {
		on   bool
		name string
	}{
		{c.flags.Indexed, "indexed"},
		{c.flags.Stored, "stored"},
		{c.flags.DocValues, "docValues"},
		{c.flags.MultiValued, "multiValued"},
	} {
		if f.on {
			b.WriteByte(',')
			b.WriteString(f.name)
		}
	}
	b.WriteByte('}')
	return b.String()
}
