package auth

import (
	"net/http"
	"strings"
)

// ExtractAccessToken looks for a token in the access_token cookie, then the
// Authorization header, then the token query parameter (browsers cannot set
// headers on websocket handshakes).
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	return r.URL.Query().Get("token")
}
