package http

import (
	"context"
	"net/http"

	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/core/ports"
)

type contextKey string

const callerKey contextKey = "caller"

// Authenticate resolves the Authorization header and stores the caller in the
// request context. Unresolvable requests stop here with 401.
func Authenticate(resolver ports.CallerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CallerFromContext(ctx context.Context) (*domain.Caller, bool) {
	c, ok := ctx.Value(callerKey).(*domain.Caller)
	return c, ok
}
