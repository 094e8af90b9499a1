// Package gateway is the intermediary between the console and the model
// backend. It relays /predict and /chat and answers 503 with a JSON body when
// the backend cannot be reached, which is the signal the prediction
// orchestrator reports as "service unavailable".
package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBody = 1 << 20 // 1 MB

// UnavailableError is the "error" field of every 503 body.
const UnavailableError = "Backend service unavailable"

type unavailableResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Gateway forwards requests to one backend.
type Gateway struct {
	backend string
	client  *http.Client
	logger  *slog.Logger
	router  http.Handler
}

// New returns a Gateway relaying to backendURL (scheme and host, no path).
func New(backendURL string, timeout time.Duration, logger *slog.Logger) *Gateway {
	g := &Gateway{
		backend: strings.TrimRight(backendURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
	g.router = g.routes()
	return g
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

func (g *Gateway) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/predict", g.forward("/predict", "prediction"))
	r.Post("/chat", g.forward("/chat", "chat"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not Found"))
	})
	return r
}

// forward relays the request body to path on the backend and copies status
// and body back. service names the backend in the 503 message.
func (g *Gateway) forward(path, service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := g.logger.With("path", path, "request_id", middleware.GetReqID(r.Context()))

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, g.backend+path, bytes.NewReader(body))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := g.client.Do(req)
		if err != nil {
			log.Warn("gateway: backend unreachable", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, unavailableResponse{
				Error: UnavailableError,
				Message: fmt.Sprintf("The %s service is not running. Please start the backend API server at %s.",
					service, g.backend),
			})
			return
		}
		defer resp.Body.Close()

		out, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			log.Error("gateway: read backend response", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		log.Info("gateway: relayed",
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write(out)
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
