package middleware

import "net/http"

type routeSetter interface {
	SetRoute(string)
}

// WithRoute records the matched route pattern on the response writer so the
// request log can report it.
func WithRoute(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if setter, ok := w.(routeSetter); ok {
			setter.SetRoute(pattern)
		}
		next.ServeHTTP(w, r)
	})
}
