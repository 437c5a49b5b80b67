package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey struct{}

// ErrorWriter renders a rejected request. err is ErrUnauthorized for any token
// problem, or the revocation lookup failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// RequireSession rejects requests without a valid session cookie and stores
// the account id in the request context for downstream handlers.
func (m *Manager) RequireSession(onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.Verify(r.Context(), TokenFromRequest(r))
			if err != nil {
				onError(w, r, err)
				return
			}

			// parse already checked the id
			accountID := uuid.MustParse(claims.UserID)
			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

func WithAccountID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// AccountIDFromContext returns the id stored by RequireSession.
func AccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}
