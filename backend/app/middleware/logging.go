package middleware

import (
	"context"
	"net/http"
	"time"

	"blog-cms/backend/global"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type statusWriter struct {
	http.ResponseWriter
	status int
	route  string
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) SetRoute(route string) { w.route = route }

// Logging assigns a request id, echoes it back and logs one line per
// request once the handler returns.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(sw, r.WithContext(ctx))
		global.Logger.Info().
			Str("request_id", id).
			Str("ip", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", sw.route).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
