// Package server implements the HTTP API for placemat boards.
//
// The API exposes board CRUD, collapse/expand actions, and rendering over
// a chi router. All responses are JSON except renders, which are served
// with the target's MIME type.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okislab/placemat/pkg/board"
	perrors "github.com/okislab/placemat/pkg/errors"
	"github.com/okislab/placemat/pkg/pipeline"
	"github.com/okislab/placemat/pkg/store"
)

// Server handles the HTTP API. Construct with [New] and mount [Server.Router].
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server over the given store and pipeline runner.
func New(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, runner: runner, logger: logger}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api/boards", func(r chi.Router) {
		r.Get("/", s.handleListBoards)
		r.Post("/", s.handleCreateBoard)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetBoard)
			r.Put("/", s.handleUpdateBoard)
			r.Delete("/", s.handleDeleteBoard)
			r.Get("/tree", s.handleTree)
			r.Get("/render", s.handleRender)
			r.Post("/placemats/{placematID}/collapse", s.handleCollapse)
			r.Post("/placemats/{placematID}/expand", s.handleExpand)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps an error to a status code and a JSON body. Not-found
// errors become 404, validation errors 400, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, board.ErrUnknownElement):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidID), errors.Is(err, board.ErrNotAPlacemat),
		errors.Is(err, board.ErrInvalidElementID), errors.Is(err, board.ErrDuplicateElementID),
		errors.Is(err, board.ErrUnknownEndpoint):
		status = http.StatusBadRequest
	default:
		switch code := perrors.GetCode(err); code {
		case perrors.ErrCodeNotFound, perrors.ErrCodeBoardNotFound, perrors.ErrCodeElementNotFound:
			status = http.StatusNotFound
		case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidBoard, perrors.ErrCodeInvalidFormat,
			perrors.ErrCodeInvalidTarget, perrors.ErrCodeInvalidDocument:
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, status, errResponse{Error: err.Error(), Code: string(perrors.GetCode(err))})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errResponse{Error: msg})
}
