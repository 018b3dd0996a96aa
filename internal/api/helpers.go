package api

import (
	"strings"

	domainerrors "github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrTokenExpired) {
			return "", err
		}
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}
