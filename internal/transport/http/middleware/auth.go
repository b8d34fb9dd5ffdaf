package middleware

import (
	"context"
	"net/http"
	"strings"

	"dsar/internal/domain/auth"
	"dsar/internal/transport/http/api"
)

type ctxKey string

const ctxKeyAdmin ctxKey = "admin"

// Authorizer validates a bearer token against the server-side session store.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (auth.AdminContext, error)
}

// Auth binds the admin context when a valid bearer token is presented. It
// never rejects by itself; RequireSession guards the routes that need a
// session.
func Auth(sessions Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := sessions.Authorize(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
		})
	}
}

func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetAdmin(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithAdmin(ctx context.Context, admin auth.AdminContext) context.Context {
	return context.WithValue(ctx, ctxKeyAdmin, admin)
}

func GetAdmin(ctx context.Context) (auth.AdminContext, bool) {
	admin, ok := ctx.Value(ctxKeyAdmin).(auth.AdminContext)
	return admin, ok
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}
