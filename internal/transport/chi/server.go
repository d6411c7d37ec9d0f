package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/category"
	"github.com/kailas-cloud/recipedex/internal/domain/search/state"
	logpkg "github.com/kailas-cloud/recipedex/internal/logger"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	recipeuc "github.com/kailas-cloud/recipedex/internal/usecase/recipe"
	searchuc "github.com/kailas-cloud/recipedex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/recipedex/internal/usecase/session"
)

const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the recipedex HTTP API.
type Server struct {
	sessions      *sessionuc.Service
	recipes       *recipeuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *sessionuc.Service,
	recipes *recipeuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		sessions: sessions,
		recipes:  recipes,
		health:   health,
		logger:   logger,
	}
	// Order matters: rate limiting wraps ErrNetwork.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, ErrorCodeSessionNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeRecipeNotFound),
		sentinelHandler(domain.ErrCategoryRejected, http.StatusUnprocessableEntity, ErrorCodeCategoryRejected),
		sentinelHandler(domain.ErrInvalidCategory, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidPage, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrNetwork, http.StatusBadGateway, ErrorCodeUpstreamError),
		sentinelHandler(domain.ErrMapping, http.StatusBadGateway, ErrorCodeUpstreamError),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/categories", s.ListCategories)
	r.Get("/recipes/{id}", s.GetRecipe)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{session}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/query", s.SetQuery)
			r.Put("/category", s.SelectCategory)
			r.Put("/scroll", s.SetScroll)
			r.Post("/search", s.Search)
			r.Post("/next-page", s.NextPage)
		})
	})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, st, err := s.sessions.Create(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+id)
	writeJSON(w, http.StatusCreated, sessionToResponse(id, &st))
}

// GetSession handles GET /sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}

	st, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(id, &st))
}

// DeleteSession handles DELETE /sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}

	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetQuery handles PUT /sessions/{session}/query.
func (s *Server) SetQuery(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}
	var req QueryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	st, err := s.sessions.SetQuery(r.Context(), id, req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(id, &st))
}

// SelectCategory handles PUT /sessions/{session}/category.
// The label becomes the query and a new search runs for it. Unknown labels
// clear the selection. Milk is recorded and answered with 422.
func (s *Server) SelectCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	st, outcome, err := s.sessions.SelectCategory(r.Context(), id, req.Category)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeEventResult(w, id, &st, outcome)
}

// SetScroll handles PUT /sessions/{session}/scroll.
func (s *Server) SetScroll(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}
	var req ScrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ListPosition != nil && *req.ListPosition < 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "list_position must not be negative")
		return
	}

	st, err := s.sessions.SetScroll(r.Context(), id, req.ListPosition, req.CategoryPosition)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(id, &st))
}

// Search handles POST /sessions/{session}/search.
// A failed fetch is reported in the session status, not as an HTTP error.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}

	st, outcome, err := s.sessions.Search(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeEventResult(w, id, &st, outcome)
}

// NextPage handles POST /sessions/{session}/next-page.
func (s *Server) NextPage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}

	st, outcome, err := s.sessions.NextPage(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeEventResult(w, id, &st, outcome)
}

// GetRecipe handles GET /recipes/{id}.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
		return
	}

	rec, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipeToResponse(rec))
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	all := category.All()
	items := make([]string, len(all))
	for i, c := range all {
		items[i] = c.Value()
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Items: items})
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

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// sessionParam binds the {session} path parameter as a UUID.
func (s *Server) sessionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "session", chi.URLParam(r, "session"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("Invalid format for parameter session: %s", err))
		return "", false
	}
	return id.String(), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeEventResult(w http.ResponseWriter, id string, st *state.State, outcome searchuc.Outcome) {
	resp := sessionToResponse(id, st)
	resp.Outcome = string(outcome)
	writeJSON(w, http.StatusOK, resp)
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

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrNotFound,
		domain.ErrCategoryRejected,
		domain.ErrInvalidCategory,
		domain.ErrInvalidPage,
		domain.ErrRateLimited,
		domain.ErrNetwork,
		domain.ErrMapping,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))

	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}

	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
