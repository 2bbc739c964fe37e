package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/goupromo/goupromo-backend/api/responses"
	"github.com/goupromo/goupromo-backend/internal/users"
	pkgerrors "github.com/goupromo/goupromo-backend/pkg/errors"
	"github.com/goupromo/goupromo-backend/pkg/logger"
)

// CurrentUserResolver turns a bearer token into the user it was issued for.
type CurrentUserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*users.UserDTO, error)
}

// Auth resolves the bearer token and seeds the request context with the user.
func Auth(resolver CurrentUserResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "could not validate credentials"))
				return
			}
			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
				return
			}

			user, err := resolver.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if user == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "could not validate credentials"))
				return
			}

			ctx := WithCurrentUser(r.Context(), user)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID.String())
				ctx = logg.WithUsername(ctx, user.Username)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header. It returns an
// empty string when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) < 7 || !strings.EqualFold(raw[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(raw[7:])
}
