package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gympulse/member-portal/internal/core/domain"
	"github.com/gympulse/member-portal/internal/core/ports"
)

type stubGymAPI struct {
	loginToken string
	loginErr   error
	msg        string
	msgErr     error
}

func (s *stubGymAPI) FetchProfile(_ context.Context, _, _ string) (*domain.User, error) {
	return nil, errors.New("not used")
}

func (s *stubGymAPI) Login(_ context.Context, _, _ string) (string, error) {
	return s.loginToken, s.loginErr
}

func (s *stubGymAPI) Register(_ context.Context, _ ports.RegisterInput) (string, error) {
	return s.loginToken, s.loginErr
}

func (s *stubGymAPI) ForgotPassword(_ context.Context, _ string) (string, error) {
	return s.msg, s.msgErr
}

func (s *stubGymAPI) ResetPassword(_ context.Context, _, _ string) (string, error) {
	return s.msg, s.msgErr
}

type stubSessions struct {
	snap       domain.Snapshot
	loginErr   error
	loginToken string
	loggedOut  bool
	refreshed  bool
}

func (s *stubSessions) Initialize(_ context.Context, _ string) domain.Snapshot { return s.snap }

func (s *stubSessions) Login(_ context.Context, _, token string) (domain.Snapshot, error) {
	s.loginToken = token
	return s.snap, s.loginErr
}

func (s *stubSessions) Logout(_ context.Context, _ string) { s.loggedOut = true }

func (s *stubSessions) Refresh(_ context.Context, _ string) domain.Snapshot {
	s.refreshed = true
	return s.snap
}

func (s *stubSessions) Snapshot(_ string) domain.Snapshot { return s.snap }

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session_id", "sid-1")
	return c, rec
}

func TestLogin_Success(t *testing.T) {
	gym := &stubGymAPI{loginToken: "tok-1"}
	sessions := &stubSessions{snap: domain.Snapshot{
		User: &domain.User{ID: "u1", Role: domain.RoleAdmin, Name: "Ada"},
	}}
	h := NewAuthHandler(gym, sessions)

	c, rec := newAuthContext(t, http.MethodPost, "/login", `{"email":"ada@example.com","password":"s3cretpass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sessions.loginToken != "tok-1" {
		t.Fatalf("session service did not receive the upstream token")
	}
	if !strings.Contains(rec.Body.String(), `"Ada"`) {
		t.Fatalf("response missing user: %s", rec.Body.String())
	}
}

func TestLogin_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&stubGymAPI{}, &stubSessions{})

	c, _ := newAuthContext(t, http.MethodPost, "/login", `{"email":"not-an-email","password":""}`)
	err := h.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestLogin_UpstreamRejection(t *testing.T) {
	gym := &stubGymAPI{loginErr: &domain.UpstreamError{StatusCode: 401, Message: "invalid credentials"}}
	h := NewAuthHandler(gym, &stubSessions{})

	c, _ := newAuthContext(t, http.MethodPost, "/login", `{"email":"ada@example.com","password":"wrongpass"}`)
	err := h.Login(c)

	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected upstream 401 to propagate, got %v", err)
	}
}

func TestLogin_VerificationFailed(t *testing.T) {
	gym := &stubGymAPI{loginToken: "tok-1"}
	sessions := &stubSessions{} // snapshot stays anonymous
	h := NewAuthHandler(gym, sessions)

	c, _ := newAuthContext(t, http.MethodPost, "/login", `{"email":"ada@example.com","password":"s3cretpass"}`)
	err := h.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	gym := &stubGymAPI{loginToken: "tok-2"}
	sessions := &stubSessions{snap: domain.Snapshot{
		User: &domain.User{ID: "u2", Role: domain.RoleUser},
	}}
	h := NewAuthHandler(gym, sessions)

	c, rec := newAuthContext(t, http.MethodPost, "/register",
		`{"name":"Ada","email":"ada@example.com","password":"s3cretpass"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(&stubGymAPI{}, sessions)

	c, rec := newAuthContext(t, http.MethodPost, "/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !sessions.loggedOut {
		t.Fatalf("session service logout not called")
	}
}

func TestForgotPassword_PassesMessageThrough(t *testing.T) {
	gym := &stubGymAPI{msg: "reset mail sent"}
	h := NewAuthHandler(gym, &stubSessions{})

	c, rec := newAuthContext(t, http.MethodPost, "/forgot-password", `{"email":"ada@example.com"}`)
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "reset mail sent") {
		t.Fatalf("upstream message missing: %s", rec.Body.String())
	}
}

func TestRefreshSession(t *testing.T) {
	sessions := &stubSessions{snap: domain.Snapshot{
		User: &domain.User{ID: "u1", Role: domain.RoleUser, Credits: 2},
	}}
	h := NewAuthHandler(&stubGymAPI{}, sessions)

	c, rec := newAuthContext(t, http.MethodPost, "/session/refresh", "")
	if err := h.RefreshSession(c); err != nil {
		t.Fatalf("RefreshSession returned error: %v", err)
	}
	if !sessions.refreshed {
		t.Fatalf("session service refresh not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
