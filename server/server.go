// Package server exposes the renderer over HTTP. POST /render accepts the
// JSON document payload and responds with the recorded draw-primitive
// stream plus any warnings, leaving byte-encoding to the caller.
package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	flexdoc "github.com/lvillar/flexdoc"
	"github.com/lvillar/flexdoc/draw"
	"github.com/lvillar/flexdoc/layout"
	"github.com/lvillar/flexdoc/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Maximum accepted payload size (16 MiB); data-URI images can be large.
const maxPayloadBytes = 16 << 20

// Server handles render requests.
type Server struct {
	renderer *flexdoc.Renderer
	log      *zap.Logger
	router   chi.Router
}

// New builds a Server around the given renderer. logger may be nil.
func New(renderer *flexdoc.Renderer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{renderer: renderer, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Post("/render", s.handleRender)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// cors allows any origin; the renderer holds no state worth protecting.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// renderResponse is the success body: the render result plus the recorded
// primitive stream.
type renderResponse struct {
	PageCount  int              `json:"pageCount"`
	Warnings   []layout.Warning `json:"warnings,omitempty"`
	Primitives []draw.Primitive `json:"primitives"`
}

type errorResponse struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	started := time.Now()
	log := s.log.With(zap.String("requestId", requestID))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload too large"})
		return
	}

	rec := draw.NewRecorder()
	result, err := s.renderer.Render(r.Context(), body, rec)
	if err != nil {
		status := http.StatusBadRequest
		resp := errorResponse{Error: err.Error()}
		var nodeErr *schema.NodeError
		if errors.As(err, &nodeErr) {
			resp.Path = nodeErr.Path
		}
		var renderErr *flexdoc.RenderError
		if errors.As(err, &renderErr) && renderErr.Op != "decode" && renderErr.Op != "validate" {
			status = http.StatusInternalServerError
		}
		log.Warn("render failed", zap.Error(err), zap.Int("status", status))
		writeJSON(w, status, resp)
		return
	}

	log.Info("render complete",
		zap.Int("pages", result.PageCount),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("elapsed", time.Since(started)))

	writeJSON(w, http.StatusOK, renderResponse{
		PageCount:  result.PageCount,
		Warnings:   result.Warnings,
		Primitives: rec.Primitives,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
