package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dragnotes/logger"
	"dragnotes/models"
	"dragnotes/service"
)

const (
	msgMissingToken = "Authentication failed. Token not provided or invalid format."
	msgInvalidToken = "Authentication failed. Invalid token."
	msgUserNotFound = "Authentication failed. User not found."
)

// Identifier resolves a bearer token to the user it was issued for.
type Identifier interface {
	Identify(ctx context.Context, token string) (models.Identity, error)
}

// Guard rejects requests that do not carry a valid bearer token for an
// existing user.
type Guard struct {
	identifier Identifier
}

func NewGuard(identifier Identifier) *Guard {
	return &Guard{identifier: identifier}
}

// RequireAuth stores the caller's Identity in the request context, or
// answers 401 without calling next.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			log.Debug().Msg("bearer token missing")
			unauthorized(w, msgMissingToken)
			return
		}

		id, err := g.identifier.Identify(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrUserNotFound):
			log.Info().Msg("token issued for a user that no longer exists")
			unauthorized(w, msgUserNotFound)
			return
		case errors.Is(err, service.ErrAuthentication):
			log.Info().Err(err).Msg("token rejected")
			unauthorized(w, msgInvalidToken)
			return
		default:
			log.Error().Err(err).Msg("failed to resolve token")
			unauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
