package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pointfield/internal/domain"
	domdoc "github.com/kailas-cloud/pointfield/internal/domain/document"
	"github.com/kailas-cloud/pointfield/internal/domain/schema"
	"github.com/kailas-cloud/pointfield/internal/domain/selector"
	"github.com/kailas-cloud/pointfield/internal/logger"
	documentuc "github.com/kailas-cloud/pointfield/internal/usecase/document"
	healthuc "github.com/kailas-cloud/pointfield/internal/usecase/health"
	searchuc "github.com/kailas-cloud/pointfield/internal/usecase/search"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the document, search, schema and health endpoints.
type Server struct {
	schema        schema.Schema
	documents     *documentuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sc schema.Schema,
	documents *documentuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		schema:    sc,
		documents: documents,
		search:    search,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrParse, http.StatusBadRequest, CodeParseError),
		sentinelHandler(domain.ErrConfiguration, http.StatusBadRequest, CodeConfigurationError),
		sentinelHandler(domain.ErrUnsupportedSelector, http.StatusBadRequest, CodeUnsupportedSelector),
		sentinelHandler(domain.ErrFieldNotFound, http.StatusNotFound, CodeFieldNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
	}
	return s
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Put("/documents/{id}", s.PutDocument)
	r.Get("/documents/{id}", s.GetDocument)
	r.Delete("/documents/{id}", s.DeleteDocument)
	r.Post("/search", s.Search)
	r.Get("/schema", s.GetSchema)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// PutDocument handles PUT /documents/{id}.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	var req PutDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	logger.AddFields(r.Context(), zap.String("document_id", id))
	doc, err := domdoc.New(id, req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	n, err := s.documents.Put(r.Context(), doc)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logger.AddFields(r.Context(), zap.Int("representations", n))
	writeJSON(w, http.StatusOK, PutDocumentResponse{ID: id, Representations: n})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logger.AddFields(r.Context(), zap.String("document_id", id))
	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{ID: doc.ID(), Fields: doc.Fields()})
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logger.AddFields(r.Context(), zap.String("document_id", id))
	if err := s.documents.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := searchRequestFromBody(&body)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	logger.AddFields(r.Context(), zap.String("field", req.Field), zap.String("op", string(req.Op)))
	res, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logger.AddFields(r.Context(),
		zap.String("query_path", res.Path),
		zap.String("backend", res.Backend),
		zap.Int("total", res.Total),
	)
	writeJSON(w, http.StatusOK, searchResultToResponse(res))
}

// GetSchema handles GET /schema.
func (s *Server) GetSchema(w http.ResponseWriter, _ *http.Request) {
	resp := SchemaResponse{Name: s.schema.Name(), Fields: make([]FieldResponse, 0, s.schema.Len())}
	for _, f := range s.schema.Fields() {
		resp.Fields = append(resp.Fields, FieldResponse{
			Name:        f.Name(),
			Type:        string(f.Domain()),
			Indexed:     f.Indexed(),
			Stored:      f.Stored(),
			DocValues:   f.HasDocValues(),
			MultiValued: f.MultiValued(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	switch report.Status {
	case healthuc.Unhealthy:
		status = http.StatusServiceUnavailable
		s.logger.Error("health check failed", zap.Any("checks", checks))
	case healthuc.Degraded:
		s.logger.Warn("health check degraded", zap.Any("checks", checks))
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

func searchRequestFromBody(b *SearchRequest) (*searchuc.Request, error) {
	op, err := searchuc.ParseOp(b.Op)
	if err != nil {
		return nil, err
	}
	req := &searchuc.Request{
		Field:        b.Field,
		Op:           op,
		Value:        b.Value,
		Values:       b.Values,
		Min:          b.Min,
		Max:          b.Max,
		MinInclusive: b.MinInclusive == nil || *b.MinInclusive,
		MaxInclusive: b.MaxInclusive == nil || *b.MaxInclusive,
		Limit:        b.Limit,
	}
	if b.Sort != nil {
		sel := selector.Min
		if b.Sort.Selector != "" {
			if sel, err = selector.ParseType(b.Sort.Selector); err != nil {
				return nil, err
			}
		}
		req.Sort = &searchuc.Sort{Field: b.Sort.Field, Selector: sel, Descending: b.Sort.Descending}
	}
	return req, nil
}

func searchResultToResponse(res searchuc.Result) SearchResponse {
	hits := make([]HitResponse, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = HitResponse{ID: h.ID, SortValue: h.SortValue}
	}
	return SearchResponse{
		Query:   res.Query,
		Path:    res.Path,
		Backend: res.Backend,
		Total:   res.Total,
		Hits:    hits,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler creates an errorHandler for a simple sentinel -> HTTP status mapping.
// Client errors carry their own message; it is built from request input only.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// handleDomainError maps a domain error to an HTTP response.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			logger.AddFields(r.Context(), zap.String("error", err.Error()))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
