package auth

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingHeader = errors.New("authorization header is missing")
	ErrMalformed     = errors.New("authorization header format must be 'Bearer {token}'")
)

// ExtractTokenFromRequest extracts the bearer token from the Authorization header.
// The scheme is matched case-insensitively.
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrMalformed
	}

	return parts[1], nil
}
