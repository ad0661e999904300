package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pricewise/pricesearch/internal/domain"
	domcat "github.com/pricewise/pricesearch/internal/domain/catalog"
	"github.com/pricewise/pricesearch/internal/domain/search/result"
	healthuc "github.com/pricewise/pricesearch/internal/usecase/health"
	searchuc "github.com/pricewise/pricesearch/internal/usecase/search"
)

// DefaultMaxBodyBytes caps catalog uploads when no limit is configured.
const DefaultMaxBodyBytes = 8 << 20

// Error codes returned in error responses.
const (
	codeBadRequest         = "bad_request"
	codeUnauthorized       = "unauthorized"
	codeQueryTooLong       = "query_too_long"
	codeInvalidCatalog     = "invalid_catalog"
	codeCategoryNotFound   = "category_not_found"
	codeCatalogUnavailable = "catalog_unavailable"
	codePayloadTooLarge    = "payload_too_large"
	codeInternalError      = "internal_error"
)

// CatalogWriter stores uploaded catalog documents.
type CatalogWriter interface {
	Put(ctx context.Context, category string, raw []byte) (domcat.Snapshot, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search HTTP API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	catalogs      CatalogWriter
	maxBodyBytes  int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. catalogs can be nil, which disables catalog uploads.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	catalogs CatalogWriter,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		health:       health,
		catalogs:     catalogs,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCategoryNotFound, http.StatusNotFound, codeCategoryNotFound),
		sentinelHandler(domain.ErrQueryTooLong, http.StatusBadRequest, codeQueryTooLong),
		sentinelHandler(domain.ErrInvalidCatalog, http.StatusBadRequest, codeInvalidCatalog),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, codeCatalogUnavailable),
	}
	return s
}

// WithMaxBodyBytes sets the catalog upload size limit.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Get("/resolve", s.Resolve)
		r.Get("/categories", s.ListCategories)
		r.Get("/categories/{category}/brands", s.ListBrands)
		if s.catalogs != nil {
			r.Put("/categories/{category}/catalog", s.PutCatalog)
		}
	})
}

type brandResponse struct {
	Brand string  `json:"brand"`
	Score float64 `json:"score"`
}

type modelResponse struct {
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	ModelImage string  `json:"model_image,omitempty"`
	Score      float64 `json:"score"`
}

type searchResponse struct {
	Brands []brandResponse `json:"brands"`
	Models []modelResponse `json:"models"`
}

type resolveResponse struct {
	Kind       string          `json:"kind"`
	Brand      string          `json:"brand,omitempty"`
	Model      string          `json:"model,omitempty"`
	ModelImage string          `json:"model_image,omitempty"`
	Brands     []brandResponse `json:"brands"`
	Models     []modelResponse `json:"models"`
}

type listResponse struct {
	Items []string `json:"items"`
}

type catalogResponse struct {
	Category string   `json:"category"`
	Brands   int      `json:"brands"`
	Models   int      `json:"models"`
	Issues   []string `json:"issues"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.search.Search(r.Context(), q.Get("category"), q.Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResultToResponse(res))
}

// Resolve handles GET /v1/resolve.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.search.Resolve(r.Context(), q.Get("category"), q.Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	body := searchResultToResponse(res.Result)
	writeJSON(w, http.StatusOK, resolveResponse{
		Kind:       string(res.Kind),
		Brand:      res.Brand,
		Model:      res.Model,
		ModelImage: res.Image,
		Brands:     body.Brands,
		Models:     body.Models,
	})
}

// ListCategories handles GET /v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	items := s.search.Categories()
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items})
}

// ListBrands handles GET /v1/categories/{category}/brands.
func (s *Server) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.search.Brands(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: brands})
}

// PutCatalog handles PUT /v1/categories/{category}/catalog.
func (s *Server) PutCatalog(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "catalog document too large")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	category := chi.URLParam(r, "category")
	snap, err := s.catalogs.Put(r.Context(), category, body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	issues := make([]string, len(snap.Issues()))
	for i, is := range snap.Issues() {
		issues[i] = is.String()
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Category: snap.Category(),
		Brands:   len(snap.Entries()),
		Models:   snap.Len(),
		Issues:   issues,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrCategoryNotFound,
		domain.ErrQueryTooLong,
		domain.ErrInvalidCatalog,
		domain.ErrCatalogUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func searchResultToResponse(res result.Result) searchResponse {
	brands := make([]brandResponse, len(res.Brands()))
	for i, b := range res.Brands() {
		brands[i] = brandResponse{Brand: b.Brand(), Score: b.Score()}
	}
	models := make([]modelResponse, len(res.Models()))
	for i, m := range res.Models() {
		models[i] = modelResponse{
			Brand:      m.Brand(),
			Model:      m.Model(),
			ModelImage: m.Image(),
			Score:      m.Score(),
		}
	}
	return searchResponse{Brands: brands, Models: models}
}
