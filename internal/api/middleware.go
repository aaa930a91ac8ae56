package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"musicschool-api/internal/auth"
	"musicschool-api/internal/model"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware validates the bearer token and puts the resolved
// caller identity on the request context. Every protected route reads
// the identity explicitly; no handler reaches into global auth state.
func AuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, r, "missing authorization header")
				return
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, r, "invalid authorization header format")
				return
			}

			identity, err := tokens.Validate(parts[1])
			if err != nil {
				unauthorized(w, r, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, errorResponse{Error: errorBody{Code: "UNAUTHORIZED", Message: msg}})
}

// IdentityFrom extracts the authenticated caller from the context.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}
