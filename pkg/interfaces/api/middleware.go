package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// RoleHeader carries the caller's access role, set by the access-control layer in front
const RoleHeader = "X-Access-Role"

type contextKey string

const roleKey contextKey = "accessRole"

// RoleFromContext returns the role attached by AccessRole, if any
func RoleFromContext(ctx context.Context) (entities.Role, bool) {
	role, ok := ctx.Value(roleKey).(entities.Role)
	return role, ok
}

// AccessRole parses the role header into the request context and echoes it back.
// The role is passed through untouched; no handler branches on it.
func AccessRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(RoleHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		role, err := entities.ParseRole(raw)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		w.Header().Set(RoleHeader, string(role))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), roleKey, role)))
	})
}

// RequestLogger logs every request with zerolog once it completes
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		event.
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("bytes", ww.BytesWritten()).
			Msg("Request processed")
	})
}
