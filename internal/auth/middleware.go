package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/salesbook/internal/platform/httpx"
	"github.com/odyssey-erp/salesbook/internal/shared"
)

// RequireToken rejects requests without a live bearer token and stores the caller's user id
// in the request context.
func RequireToken(tokens Tokens, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			claims, err := tokens.Verify(r.Context(), token)
			if err != nil {
				if !errors.Is(err, shared.ErrInvalidToken) && logger != nil {
					logger.Error("verify token", slog.Any("error", err))
				}
				httpx.Error(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			ctx := shared.ContextWithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
