package auth

import (
	"context"
	"log/slog"
	"net/http"

	"webgen-backend/internal/database"
)

type sessionContextKey struct{}

// SessionMiddleware attaches the browser's session to every request, creating
// a session (and cookie) on first visit.
type SessionMiddleware struct {
	sessions   *SessionStore
	cookieName string
}

func NewSessionMiddleware(sessions *SessionStore, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookieName: cookieName}
}

func (m *SessionMiddleware) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.lookup(r)
		if err != nil {
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}

		if session == nil {
			session, err = m.sessions.Create(r.Context())
			if err != nil {
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    session.Id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) lookup(r *http.Request) (*database.Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, nil
	}
	return m.sessions.Get(r.Context(), cookie.Value)
}

// LoginRequired redirects to the login flow instead of failing; it assumes
// WithSession already ran.
func LoginRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFrom(r)
		if session == nil || !session.UserId.Valid {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFrom returns the request's session, or nil outside WithSession.
func SessionFrom(r *http.Request) *database.Session {
	session, ok := r.Context().Value(sessionContextKey{}).(*database.Session)
	if !ok {
		slog.Error("no session attached to request", "path", r.URL.Path)
		return nil
	}
	return session
}
