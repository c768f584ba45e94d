package router

import (
	"AdminAPI/internal/config"
	"AdminAPI/internal/handler"
	"net/http"
	"strings"
)

const (
	allowedHeaders = "Content-Type, Authorization, If-None-Match, " + handler.TenantHeader
	exposedHeaders = "Content-Disposition, Etag, X-Request-ID, " +
		"Pagination-Limit, Pagination-Total-Count, Pagination-Page-Count, Pagination-Current-Page"
)

// corsPolicy is the parsed form of CORS_ALLOW_ORIGIN. An empty origin list or "*"
// allows any origin.
type corsPolicy struct {
	anyOrigin   bool
	origins     map[string]bool
	credentials bool
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	p := corsPolicy{origins: map[string]bool{}, credentials: cfg.AllowCredentials}
	for _, o := range strings.Split(cfg.AllowOrigin, ",") {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[o] = true
		}
	}
	if len(p.origins) == 0 {
		p.anyOrigin = true
	}
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for a request origin,
// empty when the origin is refused, and whether the value varies with the origin.
// Credentialed responses never carry "*", so the request origin is echoed instead.
func (p corsPolicy) allowOrigin(requestOrigin string) (value string, vary bool) {
	switch {
	case p.anyOrigin && p.credentials && requestOrigin != "":
		return requestOrigin, true
	case p.anyOrigin:
		return "*", false
	case p.origins[requestOrigin]:
		return requestOrigin, true
	}
	return "", true
}

// withCORS answers preflight requests itself and decorates every other response.
func withCORS(cfg config.CORSConfig, next http.HandlerFunc) http.HandlerFunc {
	policy := newCORSPolicy(cfg)
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		origin, vary := policy.allowOrigin(r.Header.Get("Origin"))
		if origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
		}
		if vary {
			h.Add("Vary", "Origin")
		}
		if policy.credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Expose-Headers", exposedHeaders)

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", allowedHeaders)
			h.Set("Access-Control-Max-Age", "86400")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}
