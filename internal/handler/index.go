package handler

import (
	"AdminAPI/internal/endpoint"
	"AdminAPI/internal/logger"
	"AdminAPI/internal/query"
	"AdminAPI/internal/resolver"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// TenantHeader carries the tenant of a request.
const TenantHeader = "X-Tenant-ID"

// Handler serves the list, export and stats routes of every registered endpoint.
type Handler struct {
	Resolver *resolver.Resolver
}

func New(r *resolver.Resolver) *Handler {
	return &Handler{Resolver: r}
}

func requestFor(r *http.Request) resolver.Request {
	return resolver.Request{
		Endpoint: mux.Vars(r)["endpoint"],
		Tenant:   strings.TrimSpace(r.Header.Get(TenantHeader)),
		Params:   r.URL.Query(),
	}
}

// Index returns one page of an endpoint as {"data": [...], "pagination": {...}}.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	req := requestFor(r)
	logger.Info("request", map[string]any{
		"endpoint": req.Endpoint,
		"tenant":   req.Tenant,
		"query":    r.URL.RawQuery,
	})

	result, err := h.Resolver.List(r.Context(), req)
	if err != nil {
		writeError(w, req.Endpoint, err)
		return
	}

	p := result.Pagination
	w.Header().Set("Pagination-Limit", strconv.Itoa(p.Limit))
	w.Header().Set("Pagination-Total-Count", strconv.Itoa(p.Total))
	w.Header().Set("Pagination-Page-Count", strconv.Itoa(p.Pages))
	w.Header().Set("Pagination-Current-Page", strconv.Itoa(p.Page))
	writeJSON(w, req.Endpoint, http.StatusOK, result)
}

type errorBody struct {
	Error string `json:"error"`
	Param string `json:"param,omitempty"`
}

// writeError maps query errors to 400, unknown endpoints to 404 and everything else
// to 500 without leaking details.
func writeError(w http.ResponseWriter, name string, err error) {
	var qe *query.InvalidQueryError
	switch {
	case errors.As(err, &qe):
		logger.Warn("invalid_query", map[string]any{"endpoint": name, "param": qe.Param, "error": qe.Message})
		writeJSON(w, name, http.StatusBadRequest, errorBody{Error: qe.Message, Param: qe.Param})
	case errors.Is(err, query.ErrInvalidQuery):
		logger.Warn("invalid_query", map[string]any{"endpoint": name, "error": err.Error()})
		writeJSON(w, name, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, endpoint.ErrNotFound):
		logger.Warn("endpoint_not_found", map[string]any{"endpoint": name})
		writeJSON(w, name, http.StatusNotFound, errorBody{Error: "endpoint not found"})
	default:
		logger.Error("resolver_error", map[string]any{"endpoint": name, "error": err.Error()})
		writeJSON(w, name, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, name string, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("write_response_failed", map[string]any{
			"endpoint": name,
			"error":    err.Error(),
		})
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func bytesToEtag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// ifNoneMatchFound reports whether etag is listed in an If-None-Match header value.
func ifNoneMatchFound(ifNoneMatch, etag string) bool {
	ifNoneMatch = strings.TrimSpace(ifNoneMatch)
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
