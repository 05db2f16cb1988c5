package pointfield

import "github.com/kailas-cloud/pointfield/internal/domain"

// Errors returned by the client. Match them with errors.Is.
var (
	ErrParse               = domain.ErrParse
	ErrConfiguration       = domain.ErrConfiguration
	ErrUnsupportedSelector = domain.ErrUnsupportedSelector
	ErrFieldNotFound       = domain.ErrFieldNotFound
	ErrDocumentNotFound    = domain.ErrDocumentNotFound
)
