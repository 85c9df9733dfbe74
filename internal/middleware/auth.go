package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nickcheng/taskapp-backend/internal/api/httpx"
	"github.com/nickcheng/taskapp-backend/internal/auth"
	"github.com/nickcheng/taskapp-backend/internal/models"
	repo "github.com/nickcheng/taskapp-backend/internal/repository"
)

type sessionKey struct{}

// Session is the resolved identity for one request: the authenticated user
// plus the exact token that authenticated it, so logout can revoke only the
// current session.
type Session struct {
	User  models.User
	Token string
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

type AuthMiddleware struct {
	tm    *auth.TokenManager
	users repo.Users
}

func NewAuthMiddleware(tm *auth.TokenManager, users repo.Users) *AuthMiddleware {
	return &AuthMiddleware{tm: tm, users: users}
}

// Auth walks the gate: extract bearer token, verify signature, resolve the
// user, require the token to still be in the user's stored list. Any failure
// is a 401 and the handler never runs.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "please authenticate")
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		uid, err := m.tm.Verify(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		user, err := m.users.GetByID(r.Context(), uid)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		// A verified signature is not enough: logout removes the token from
		// the stored list, which is what actually revokes it.
		ok, err := m.users.HasToken(r.Context(), uid, token)
		if err != nil || !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		ctx := WithSession(r.Context(), Session{User: user, Token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
