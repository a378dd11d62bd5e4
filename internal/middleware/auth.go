package middleware

import (
	"context"
	"net/http"

	"medicart-be/internal/auth"
	"medicart-be/internal/logger"
	"medicart-be/internal/utils"

	"go.uber.org/zap"
)

// TokenParser validates an access token and returns its claims.
type TokenParser interface {
	Parse(tokenStr string) (*auth.Claims, error)
}

// RequireAuth rejects the request with 401 unless it carries a valid token.
func RequireAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Warn("rejected access token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withShop(r, claims)))
		})
	}
}

// OptionalAuth attaches the shop identity when a token is present. Requests
// without a token pass through anonymously; a bad token is still a 401.
func OptionalAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withShop(r, claims)))
		})
	}
}

func withShop(r *http.Request, claims *auth.Claims) context.Context {
	if entry := accessEntryFrom(r.Context()); entry != nil {
		entry.shop = claims.ShopName
	}
	return utils.SetShopContext(r.Context(), claims.ShopID, claims.ShopName)
}
