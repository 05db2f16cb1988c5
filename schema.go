package pointfield

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/pointfield/internal/datemath"
)

const tagKey = "pointfield"

var timeType = reflect.TypeOf(time.Time{})

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ    reflect.Type // struct type for reconstruction
	idIdx  int
	fields []FieldInfo

	// Mapping from struct field index to document field name.
	mappings []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
	ft        FieldType
	multi     bool
}

// parseSchema reflects on T and extracts pointfield struct tag metadata.
//
//	type Product struct {
//		SKU      string    `pointfield:"sku,id"`
//		Price    float64   `pointfield:"price,indexed,stored,docvalues"`
//		Sizes    []int32   `pointfield:"sizes,indexed,docvalues"`
//		Released time.Time `pointfield:"released,indexed,stored"`
//	}
//
// The field type follows the Go type; slices are multi-valued.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("pointfield: type %v is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	if meta.idIdx == -1 {
		return nil, fmt.Errorf("pointfield: no field with `pointfield:\"...,id\"` tag in %s", t)
	}
	if len(meta.fields) == 0 {
		return nil, fmt.Errorf("pointfield: no numeric fields in %s", t)
	}
	return meta, nil
}

// applyTag processes a single struct field's pointfield tag.
func applyTag(meta *schemaMeta, idx int, sf reflect.StructField, tag string) error {
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = strings.ToLower(sf.Name)
	}

	var flags Flag
	for _, mod := range parts[1:] {
		switch mod {
		case "id":
			if meta.idIdx != -1 {
				return fmt.Errorf("pointfield: duplicate id tag on field %s", sf.Name)
			}
			if sf.Type.Kind() != reflect.String {
				return fmt.Errorf("pointfield: id field %s must be a string", sf.Name)
			}
			meta.idIdx = idx
			return nil
		case "indexed":
			flags |= Indexed
		case "stored":
			flags |= Stored
		case "docvalues":
			flags |= DocValues
		default:
			return fmt.Errorf("pointfield: unknown modifier %q on field %s", mod, sf.Name)
		}
	}

	ft, multi, err := fieldTypeOf(sf.Type)
	if err != nil {
		return fmt.Errorf("pointfield: field %s: %w", sf.Name, err)
	}
	if multi {
		flags |= MultiValued
	}
	meta.fields = append(meta.fields, FieldInfo{Name: name, Type: ft, Flags: flags})
	meta.mappings = append(meta.mappings, fieldMapping{structIdx: idx, name: name, ft: ft, multi: multi})
	return nil
}

func fieldTypeOf(t reflect.Type) (FieldType, bool, error) {
	multi := false
	if t.Kind() == reflect.Slice {
		multi = true
		t = t.Elem()
	}
	if t == timeType {
		return Date, multi, nil
	}
	switch t.Kind() {
	case reflect.Int32:
		return Int32, multi, nil
	case reflect.Int, reflect.Int64:
		return Int64, multi, nil
	case reflect.Float32:
		return Float32, multi, nil
	case reflect.Float64:
		return Float64, multi, nil
	default:
		return "", false, fmt.Errorf("unsupported Go type %s", t)
	}
}

// options returns the client options declaring the parsed fields.
func (m *schemaMeta) options() []Option {
	opts := make([]Option, 0, len(m.fields)+1)
	if name := m.typ.Name(); name != "" {
		opts = append(opts, WithName(name))
	}
	for _, f := range m.fields {
		opts = append(opts, WithField(f.Name, f.Type, f.Flags))
	}
	return opts
}

// toValues converts a typed struct to its id and external values.
func (m *schemaMeta) toValues(item any) (string, map[string][]string) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	values := make(map[string][]string, len(m.mappings))
	for _, fm := range m.mappings {
		fv := v.Field(fm.structIdx)
		if !fm.multi {
			values[fm.name] = []string{formatValue(fv, fm.ft)}
			continue
		}
		if fv.Len() == 0 {
			continue
		}
		texts := make([]string, fv.Len())
		for i := range fv.Len() {
			texts[i] = formatValue(fv.Index(i), fm.ft)
		}
		values[fm.name] = texts
	}
	return v.Field(m.idIdx).String(), values
}

// fromValues builds a typed struct from stored values. Fields without stored
// values keep their zero value.
func (m *schemaMeta) fromValues(id string, values map[string][]string) (any, error) {
	v := reflect.New(m.typ).Elem()
	v.Field(m.idIdx).SetString(id)

	for _, fm := range m.mappings {
		texts, ok := values[fm.name]
		if !ok || len(texts) == 0 {
			continue
		}
		fv := v.Field(fm.structIdx)
		if !fm.multi {
			if err := setValue(fv, fm.ft, texts[0]); err != nil {
				return nil, fmt.Errorf("field %s: %w", fm.name, err)
			}
			continue
		}
		slice := reflect.MakeSlice(fv.Type(), len(texts), len(texts))
		for i, text := range texts {
			if err := setValue(slice.Index(i), fm.ft, text); err != nil {
				return nil, fmt.Errorf("field %s: %w", fm.name, err)
			}
		}
		fv.Set(slice)
	}
	return v.Interface(), nil
}

func formatValue(v reflect.Value, ft FieldType) string {
	switch ft {
	case Date:
		t, _ := v.Interface().(time.Time)
		return datemath.FormatMillis(t.UnixMilli())
	case Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	default:
		return strconv.FormatInt(v.Int(), 10)
	}
}

func setValue(v reflect.Value, ft FieldType, text string) error {
	switch ft {
	case Date:
		t, err := datemath.ParseInstant(text)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(t))
	case Float32, Float64:
		f, err := strconv.ParseFloat(text, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		n, err := strconv.ParseInt(text, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	}
	return nil
}
