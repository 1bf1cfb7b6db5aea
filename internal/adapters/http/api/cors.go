package api

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/bizdash/pkg/metrics"
)

const (
	wildcardOrigin = "*"
	corsMaxAge     = 86400
)

var (
	corsAllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	corsAllowHeaders = []string{"Content-Type", "Accept", "Origin", "X-Requested-With", HeaderRequestID}
)

// CORSMiddleware sets cross-origin headers for the allowed origins and
// answers preflight requests for routes with 204. A preflight for an
// unknown path or an unserved method, and a plain OPTIONS request, are
// passed on so the mux reports 404 or 405.
func CORSMiddleware(routes []string, allowed ...string) Middleware {
	wildcard := len(allowed) == 0 || slices.Contains(allowed, wildcardOrigin)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowOrigin := ""
			switch {
			case wildcard:
				allowOrigin = wildcardOrigin
			case origin != "" && slices.Contains(allowed, origin):
				allowOrigin = origin
				w.Header().Add("Vary", "Origin")
			}

			if allowOrigin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowOrigin)
				h.Set("Access-Control-Allow-Methods", strings.Join(corsAllowMethods, ", "))
				h.Set("Access-Control-Allow-Headers", strings.Join(corsAllowHeaders, ", "))
				h.Set("Access-Control-Expose-Headers", HeaderRequestID)
				h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
			}

			if isPreflight(r) && servesPreflight(routes, r) {
				metrics.RecordCORSPreflight()
				if allowOrigin == "" {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// servesPreflight reports whether the preflight targets a route and asks
// for a method the route answers.
func servesPreflight(routes []string, r *http.Request) bool {
	if !slices.Contains(routes, r.URL.Path) {
		return false
	}
	switch r.Header.Get("Access-Control-Request-Method") {
	case http.MethodGet, http.MethodHead:
		return true
	default:
		return false
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions &&
		r.Header.Get("Origin") != "" &&
		r.Header.Get("Access-Control-Request-Method") != ""
}
