package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/gastrolog/internal/common"
	"github.com/dmitrijs2005/gastrolog/internal/server/auth"
)

// authenticate resolves the bearer token to a user id in the request
// context.
func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeader), common.BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "Unauthorized"})
			return
		}

		userID, err := auth.GetUserIDFromToken(strings.TrimSpace(token), s.secret)
		if err != nil {
			s.logger.Debug(r.Context(), "token rejected", "err", err)
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "Invalid token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func (s *HTTPServer) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// cors admits the configured frontend. Preflights end here with 204.
func (s *HTTPServer) cors(next http.Handler) http.Handler {
	if s.opts.FrontendURL == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.opts.FrontendURL)
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn(r.Context(), "request", args...)
			return
		}
		s.logger.Info(r.Context(), "request", args...)
	})
}
