package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrParse signals a malformed or out-of-range textual value.
	ErrParse = errors.New("parse error")
	// ErrConfiguration signals that a requested capability is absent from the field.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnsupportedSelector signals a selector with no columnar equivalent.
	ErrUnsupportedSelector = errors.New("unsupported selector")
	// ErrInternalConsistency signals an unreachable branch.
	ErrInternalConsistency = errors.New("internal consistency error")
	// ErrFieldNotFound signals a field missing from the schema.
	ErrFieldNotFound = errors.New("field not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
)

// FieldError carries an error kind (one of the sentinels above), the field it
// concerns and an optional cause. errors.Is matches both the kind and the cause.
type FieldError struct {
	Field string
	Kind  error
	Msg   string
	Err   error
}

func (e *FieldError) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg += " (field=" + e.Field + ")"
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewParseError reports that input could not be read as a value of the named domain.
func NewParseError(domainName, input string, cause error) error {
	return &FieldError{
		Kind: ErrParse,
		Msg:  fmt.Sprintf("invalid %s value %q", domainName, input),
		Err:  cause,
	}
}

// NewConfigurationError reports a capability missing from field.
func NewConfigurationError(field, msg string) error {
	return &FieldError{Field: field, Kind: ErrConfiguration, Msg: msg}
}

// NewUnsupportedSelectorError reports a selector that cannot be applied to field.
func NewUnsupportedSelectorError(field, selector, domainName string) error {
	return &FieldError{
		Field: field,
		Kind:  ErrUnsupportedSelector,
		Msg: fmt.Sprintf("%s is not a supported option for picking a single value from %s field",
			selector, domainName),
	}
}

// NewInternalConsistencyError reports an unreachable branch.
func NewInternalConsistencyError(msg string) error {
	return &FieldError{Kind: ErrInternalConsistency, Msg: msg}
}

// WithField returns err annotated with field when err is a *FieldError without one.
func WithField(err error, field string) error {
	var fe *FieldError
	if errors.As(err, &fe) && fe.Field == "" {
		cp := *fe
		cp.Field = field
		return &cp
	}
	return err
}
