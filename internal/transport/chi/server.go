// Package chi exposes the point API over HTTP using the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecstore/internal/domain"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/metrics"
	"github.com/kailas-cloud/vecstore/internal/shard"
	"github.com/kailas-cloud/vecstore/internal/sparse"
	healthuc "github.com/kailas-cloud/vecstore/internal/usecase/health"
	pointsuc "github.com/kailas-cloud/vecstore/internal/usecase/points"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// QueryLimits bounds the result count of query requests. Zero fields
// fall back to the package defaults.
type QueryLimits struct {
	DefaultLimit int
	MaxLimit     int
}

const (
	defaultQueryLimit = 10
	maxQueryLimit     = 1000
)

// Server routes point API requests to the points service.
type Server struct {
	points        *pointsuc.Service
	health        *healthuc.Service
	limits        QueryLimits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. health may be nil.
func NewServer(
	points *pointsuc.Service, health *healthuc.Service, limits QueryLimits, logger *zap.Logger,
) *Server {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = defaultQueryLimit
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = maxQueryLimit
	}
	s := &Server{
		points: points,
		health: health,
		limits: limits,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sparseValidationHandler,
		sentinelHandler(domain.ErrPointNotFound, http.StatusNotFound, CodePointNotFound),
		sentinelHandler(domain.ErrVectorNotFound, http.StatusNotFound, CodeVectorNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrMalformedRequest, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrWrongSparse, http.StatusBadRequest, CodeWrongVectorFormat),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrBatchLengthMismatch, http.StatusBadRequest, CodeValidationFailed),
	}
	return s
}

// Router builds the chi mux with middleware and all point routes.
func (s *Server) Router(apiKeys []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/collections/{collection}/points", func(r chi.Router) {
		r.Put("/", s.UpsertPoints)
		r.Put("/text", s.UpsertText)
		r.Post("/sync", s.SyncPoints)
		r.Post("/delete", s.DeletePoints)
		r.Post("/payload", s.SetPayload)
		r.Post("/payload/delete", s.DeletePayload)
		r.Post("/payload/clear", s.ClearPayload)
		r.Post("/query", s.QueryPoints)
		r.Get("/{id}", s.GetPoint)
	})
	r.Route("/collections/{collection}/index", func(r chi.Router) {
		r.Put("/", s.CreateFieldIndex)
		r.Delete("/{field}", s.DeleteFieldIndex)
	})

	return r
}

// UpsertPoints handles PUT /collections/{collection}/points.
func (s *Server) UpsertPoints(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	op, err := req.toOperation()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if _, err := s.points.Upsert(r.Context(), collection, op, opts); err != nil {
		metrics.PointOperationsTotal.WithLabelValues("upsert", "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.PointOperationsTotal.WithLabelValues("upsert", "success").Inc()
	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// SyncPoints handles POST /collections/{collection}/points/sync.
func (s *Server) SyncPoints(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if _, err := s.points.Sync(r.Context(), collection, req.toOperation(), opts); err != nil {
		metrics.PointOperationsTotal.WithLabelValues("sync", "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.PointOperationsTotal.WithLabelValues("sync", "success").Inc()
	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// DeletePoints handles POST /collections/{collection}/points/delete.
func (s *Server) DeletePoints(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sel, err := req.toSelection()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if _, err := s.points.Delete(r.Context(), collection, sel, opts); err != nil {
		metrics.PointOperationsTotal.WithLabelValues("delete", "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.PointOperationsTotal.WithLabelValues("delete", "success").Inc()
	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// SetPayload handles POST /collections/{collection}/points/payload.
func (s *Server) SetPayload(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req setPayloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sel, err := selectionRequest{Points: req.Points, Filter: req.Filter}.toSelection()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if _, err := s.points.SetPayload(r.Context(), collection, sel, req.Payload, opts); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// DeletePayload handles POST /collections/{collection}/points/payload/delete.
func (s *Server) DeletePayload(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req deletePayloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sel, err := selectionRequest{Points: req.Points, Filter: req.Filter}.toSelection()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if _, err := s.points.DeletePayload(r.Context(), collection, sel, req.Keys, opts); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// ClearPayload handles POST /collections/{collection}/points/payload/clear.
func (s *Server) ClearPayload(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sel, err := req.toSelection()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if _, err := s.points.ClearPayload(r.Context(), collection, sel, opts); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// CreateFieldIndex handles PUT /collections/{collection}/index.
func (s *Server) CreateFieldIndex(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req fieldIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var schema *shard.FieldSchema
	if req.FieldSchema != nil {
		schema = &req.FieldSchema.schema
	}

	if _, err := s.points.CreateFieldIndex(r.Context(), collection, req.FieldName, schema, opts); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// DeleteFieldIndex handles DELETE /collections/{collection}/index/{field}.
func (s *Server) DeleteFieldIndex(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	field := chi.URLParam(r, "field")

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if _, err := s.points.DeleteFieldIndex(r.Context(), collection, field, opts); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// GetPoint handles GET /collections/{collection}/points/{id}.
func (s *Server) GetPoint(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	id, err := dompoint.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid point id: "+err.Error())
		return
	}

	p, err := s.points.Get(r.Context(), collection, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pointToWire(p))
}

// QueryPoints handles POST /collections/{collection}/points/query.
func (s *Server) QueryPoints(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	nq, err := req.toNamedQuery()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.limits.DefaultLimit
	}
	if limit > s.limits.MaxLimit {
		limit = s.limits.MaxLimit
	}

	hits, err := s.points.Query(r.Context(), collection, nq, limit)
	if err != nil {
		metrics.QueryRequestsTotal.WithLabelValues(queryVariant(nq), "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	items := make([]scoredPointWire, len(hits))
	for i, h := range hits {
		items[i] = scoredPointWire{ID: h.ID, Score: h.Score}
	}

	metrics.QueryRequestsTotal.WithLabelValues(queryVariant(nq), "success").Inc()
	writeJSON(w, http.StatusOK, queryResponse{Result: items})
}

// UpsertText handles PUT /collections/{collection}/points/text.
func (s *Server) UpsertText(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var req textUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "text is required")
		return
	}

	opts, err := writeOptionsFromQuery(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if _, err := s.points.UpsertText(r.Context(), collection, req.ID, req.Text, req.Payload, opts); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, operationStatus(opts.Wait))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: string(healthuc.Healthy)})
		return
	}

	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func queryVariant(nq query.NamedQuery[query.QueryVector]) string {
	switch nq.Query.Kind() {
	case query.KindRecommend:
		return "recommend"
	case query.KindDiscovery:
		return "discovery"
	case query.KindContext:
		return "context"
	default:
		return "nearest"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrPointNotFound,
		domain.ErrVectorNotFound,
		domain.ErrNotFound,
		domain.ErrMalformedRequest,
		domain.ErrWrongSparse,
		domain.ErrVectorDimMismatch,
		domain.ErrBatchLengthMismatch,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}

// sparseValidationHandler handles malformed sparse vectors with the
// concrete validation reason.
func sparseValidationHandler(w http.ResponseWriter, err error, _ string) bool {
	var ve *sparse.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeWrongVectorFormat, ve.Error())
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
