package router

import (
	"AdminAPI/internal/config"
	"AdminAPI/internal/handler"
	"AdminAPI/internal/logger"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestIDHeader = "X-Request-ID"

// New builds the HTTP routes of the API:
//
//	GET /api/{endpoint}         one page of records
//	GET /api/{endpoint}/export  every matching record as CSV or JSON
//	GET /api/{endpoint}/stats   grouped counts
//	GET /metrics                Prometheus metrics
func New(h *handler.Handler, cors config.CORSConfig) *mux.Router {
	registry := prometheus.NewRegistry()
	m := newMetrics(registry)

	wrap := func(route string, fn http.HandlerFunc) http.HandlerFunc {
		return withCORS(cors, withLogging(m.instrument(route, fn)))
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/{endpoint}", wrap("index", h.Index)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/{endpoint}/export", wrap("export", h.Export)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/{endpoint}/stats", wrap("stats", h.Stats)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		fields := map[string]any{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      sw.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		switch {
		case sw.status >= 500:
			logger.Error("response", fields)
		case sw.status >= 400:
			logger.Warn("response", fields)
		default:
			logger.Info("response", fields)
		}
	}
}
