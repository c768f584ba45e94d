package handler

import (
	"AdminAPI/internal/logger"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// Export streams every matching record as a CSV or JSON attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	req := requestFor(r)
	logger.Info("export", map[string]any{
		"endpoint": req.Endpoint,
		"tenant":   req.Tenant,
		"query":    r.URL.RawQuery,
	})

	result, err := h.Resolver.Export(r.Context(), req)
	if err != nil {
		writeError(w, req.Endpoint, err)
		return
	}

	w.Header().Set("Content-Type", result.MimeType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.SuggestedFilename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(result.Content)); err != nil {
		logger.Error("write_response_failed", map[string]any{
			"endpoint": req.Endpoint,
			"error":    err.Error(),
		})
	}
}

// Stats returns grouped counts. Responses carry an ETag and honour If-None-Match.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	req := requestFor(r)
	result, err := h.Resolver.Stats(r.Context(), req)
	if err != nil {
		writeError(w, req.Endpoint, err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		writeError(w, req.Endpoint, err)
		return
	}
	etag := bytesToEtag(data)
	w.Header().Set("Etag", etag)
	if ifNoneMatchFound(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(data)
}
