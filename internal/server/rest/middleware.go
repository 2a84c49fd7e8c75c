package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// SubjectFromContext returns the username placed in the request context by
// the bearer middleware.
func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectKey).(string)
	return v, ok && v != ""
}

// bearerAuth rejects requests without a valid bearer token and stores the
// token subject in the request context.
func (h *Handler) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := auth.ParseBearer(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			writeError(w, http.StatusUnauthorized, msgMissingToken)
			return
		}

		result := h.auth.Authorize(raw)
		h.recorder.ObserveTokenValidation(result.State)

		switch result.State {
		case auth.StateValid:
			ctx := context.WithValue(r.Context(), subjectKey, result.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		case auth.StateExpired:
			writeError(w, http.StatusUnauthorized, msgTokenExpired)
		default:
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
		}
	})
}

// requestLogger logs one line per request. Bodies and headers are not logged.
func requestLogger(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			l.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
