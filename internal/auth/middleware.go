package auth

import (
	"crypto/subtle"
	"net/http"

	"ticket-api/internal/logger"
	"ticket-api/internal/utils"
)

// Middleware gates routes behind a single shared bearer token. A missing or
// malformed header is 401; a well-formed but wrong token is 403.
func Middleware(apiToken string, log *logger.Logger) func(http.Handler) http.Handler {
	if apiToken == "" {
		panic("auth: empty API token")
	}
	expected := []byte(apiToken)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractTokenFromRequest(r)
			if err != nil {
				log.LogSecurity("AUTH", r.Method+" "+r.URL.Path+": "+err.Error())
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
				log.LogSecurity("AUTH", r.Method+" "+r.URL.Path+": invalid token")
				utils.WriteError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
