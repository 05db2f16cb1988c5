package chi

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest          ErrorCode = "bad_request"
	CodeUnauthorized        ErrorCode = "unauthorized"
	CodeValidationFailed    ErrorCode = "validation_failed"
	CodeParseError          ErrorCode = "parse_error"
	CodeConfigurationError  ErrorCode = "configuration_error"
	CodeUnsupportedSelector ErrorCode = "unsupported_selector"
	CodeFieldNotFound       ErrorCode = "field_not_found"
	CodeDocumentNotFound    ErrorCode = "document_not_found"
	CodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// PutDocumentRequest carries the external values of each field.
type PutDocumentRequest struct {
	Fields map[string][]string `json:"fields"`
}

// PutDocumentResponse reports how many representations were indexed.
type PutDocumentResponse struct {
	ID              string `json:"id"`
	Representations int    `json:"representations"`
}

// DocumentResponse holds the stored values of a document.
type DocumentResponse struct {
	ID     string              `json:"id"`
	Fields map[string][]string `json:"fields"`
}

// SearchRequest is the body of POST /search. Bounds are inclusive unless
// min_inclusive or max_inclusive is false.
type SearchRequest struct {
	Field        string       `json:"field"`
	Op           string       `json:"op"`
	Value        string       `json:"value,omitempty"`
	Values       []string     `json:"values,omitempty"`
	Min          *string      `json:"min,omitempty"`
	Max          *string      `json:"max,omitempty"`
	MinInclusive *bool        `json:"min_inclusive,omitempty"`
	MaxInclusive *bool        `json:"max_inclusive,omitempty"`
	Sort         *SortRequest `json:"sort,omitempty"`
	Limit        int          `json:"limit,omitempty"`
}

// SortRequest orders hits by one value of a field. Selector defaults to min.
type SortRequest struct {
	Field      string `json:"field,omitempty"`
	Selector   string `json:"selector,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

// SearchResponse lists matching documents.
type SearchResponse struct {
	Query   string        `json:"query"`
	Path    string        `json:"path"`
	Backend string        `json:"backend"`
	Total   int           `json:"total"`
	Hits    []HitResponse `json:"hits"`
}

// HitResponse is one matching document.
type HitResponse struct {
	ID        string `json:"id"`
	SortValue string `json:"sort_value,omitempty"`
}

// SchemaResponse describes the configured fields.
type SchemaResponse struct {
	Name   string          `json:"name"`
	Fields []FieldResponse `json:"fields"`
}

// FieldResponse describes one field.
type FieldResponse struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Indexed     bool   `json:"indexed"`
	Stored      bool   `json:"stored"`
	DocValues   bool   `json:"doc_values"`
	MultiValued bool   `json:"multi_valued"`
}

// HealthResponse aggregates component checks.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
