package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"webgen-backend/internal/auth"
	pkgapi "webgen-backend/pkg/api"
)

type AuthService struct {
	creds    *auth.CredentialStore
	sessions *auth.SessionStore
}

func NewAuthService(creds *auth.CredentialStore, sessions *auth.SessionStore) *AuthService {
	return &AuthService{creds: creds, sessions: sessions}
}

func (s *AuthService) AddRoutes(r chi.Router) {
	r.Get("/login", RestHandler(s.GetLogin))
	r.Post("/login", RestHandler(s.Login))
	r.Get("/logout", RestHandler(s.Logout))
	r.Get("/register", RestHandler(s.GetRegister))
	r.Post("/register", RestHandler(s.Register))
}

// GetLogin forgets any prior identity before the login form is shown.
func (s *AuthService) GetLogin(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)
	if session == nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "session unavailable")
	}

	if err := s.sessions.Reset(r.Context(), session.Id); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to clear session")
	}

	return nil, nil
}

func (s *AuthService) Login(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)
	if session == nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "session unavailable")
	}

	ctx := r.Context()

	if err := s.sessions.Reset(ctx, session.Id); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to clear session")
	}

	req, err := ParseForm[pkgapi.LoginRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Username == "" {
		return nil, CodedErrorf(http.StatusForbidden, "must provide username")
	}
	if req.Password == "" {
		return nil, CodedErrorf(http.StatusForbidden, "must provide password")
	}

	userId, err := s.creds.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, CodedErrorf(http.StatusForbidden, "invalid username and/or password")
		}
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to authenticate user")
	}

	if err := s.sessions.SetIdentity(ctx, session.Id, userId); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to log in user")
	}

	return Redirect("/")
}

func (s *AuthService) Logout(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)
	if session == nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "session unavailable")
	}

	if err := s.sessions.Reset(r.Context(), session.Id); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to clear session")
	}

	return Redirect("/")
}

func (s *AuthService) GetRegister(r *http.Request) (any, error) {
	return nil, nil
}

func (s *AuthService) Register(r *http.Request) (any, error) {
	session := auth.SessionFrom(r)
	if session == nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "session unavailable")
	}

	req, err := ParseForm[pkgapi.RegisterRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Username == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "must provide username")
	}
	if req.Password == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "must provide password")
	}
	if req.Confirmation == "" || req.Confirmation != req.Password {
		return nil, CodedErrorf(http.StatusBadRequest, "passwords don't match")
	}

	ctx := r.Context()

	userId, err := s.creds.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUsername) {
			return nil, CodedErrorf(http.StatusBadRequest, "username exists")
		}
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to register user")
	}

	// Auto log in.
	if err := s.sessions.Reset(ctx, session.Id); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to clear session")
	}
	if err := s.sessions.SetIdentity(ctx, session.Id, userId); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to log in user")
	}

	return Redirect("/")
}
