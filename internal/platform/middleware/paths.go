package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// probeMethods are the methods tried when checking whether a path is routed.
var probeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// FoldPathCase returns middleware that makes route matching case-insensitive.
// A request whose path matches no route in routes, but whose lower-cased path
// does, is forwarded with the lower-cased path. Paths that already match are
// left untouched. Route patterns must be registered in lower case.
//
// It must run as router-level middleware (router.Use) so the rewrite happens
// before chi resolves the route.
func FoldPathCase(routes chi.Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			lower := strings.ToLower(path)
			if lower == path || isRouted(routes, path) || !isRouted(routes, lower) {
				next.ServeHTTP(w, r)
				return
			}
			folded := r.Clone(r.Context())
			folded.URL.Path = lower
			folded.URL.RawPath = ""
			next.ServeHTTP(w, folded)
		})
	}
}

func isRouted(routes chi.Routes, path string) bool {
	for _, method := range probeMethods {
		if routes.Match(chi.NewRouteContext(), method, path) {
			return true
		}
	}
	return false
}
