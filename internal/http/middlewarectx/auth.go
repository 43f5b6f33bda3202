// Package middlewarectx holds the HTTP middleware of the API: admin token
// checks, the subscribe rate limiter and request metrics.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/jwt"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
)

// Key is the type of context keys set by this package.
type Key string

const (
	// User holds the authenticated username.
	User Key = "username"
	// Role holds the role claim.
	Role Key = "role"
)

// TokenParser verifies admin tokens.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.Claims, error)
}

// JWTMiddleware lets through requests with a valid admin bearer token and
// stores username and role in the context.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				response.Fail(w, r, http.StatusUnauthorized, "Autenticação necessária", nil)
				return
			}

			claims, err := parser.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				response.Fail(w, r, http.StatusUnauthorized, "Token inválido ou expirado", nil)
				return
			}
			if claims.Role != jwt.RoleAdmin {
				log.Warn("token without admin role", slog.String("role", claims.Role))
				response.Fail(w, r, http.StatusForbidden, "Acesso negado", nil)
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
