package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
)

type contextKey string

const UserKey contextKey = "user"

// UserIDHeader names the caller.
const UserIDHeader = "X-User-ID"

// UserResolver looks up the caller named by the request.
type UserResolver interface {
	Get(ctx context.Context, id string) (*domain.User, error)
}

// UserAuth resolves X-User-ID to a known user. Unknown ids get 401.
func UserAuth(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if userID == "" {
				api.Error(w, http.StatusUnauthorized, "missing "+UserIDHeader+" header")
				return
			}

			user, err := resolver.Get(r.Context(), userID)
			if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnknownUser) {
				api.Error(w, http.StatusUnauthorized, "unknown user")
				return
			}
			if err != nil {
				api.HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets through only users holding one of roles.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				api.Error(w, http.StatusUnauthorized, "unknown user")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			api.HandleError(w, domain.ErrRoleRequired)
		})
	}
}

// GetUser returns the user resolved by UserAuth.
func GetUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(UserKey).(*domain.User)
	return user
}

// WithUser attaches user to ctx the way UserAuth does.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
