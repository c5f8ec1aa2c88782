package middlewares

import (
	"net/http"
)

type Middleware func(http.Handler) http.Handler

// MiddlewaresExcludePaths applies middleware to every request except the
// listed paths (the public routes). Matching is exact so that excluding
// the API index never opens up the routes underneath it.
func MiddlewaresExcludePaths(middleware Middleware, excludedPaths ...string) Middleware {
	return func(next http.Handler) http.Handler {
		wrapped := middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range excludedPaths {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
