// Package api implements the Inkwell REST API using chi.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rosales/inkwell/internal/apperr"
	"github.com/rosales/inkwell/internal/auth"
)

// AuthMiddleware resolves the Bearer credential through the verifier and
// injects the resulting identity into the request context. The token may be
// empty; verifiers that require one reject it.
func AuthMiddleware(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if !errors.Is(err, apperr.ErrUnauthenticated) {
					slog.Error("token verification failed", slog.String("error", err.Error()))
				}
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}
