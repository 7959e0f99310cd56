package gymapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gympulse/member-portal/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 0, zerolog.Nop())
}

func TestFetchProfile_MapsMongoID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/user" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Fatalf("bearer header missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"u1","role":"user","name":"Ada","email":"ada@example.com","credits":3}`))
	})

	user, err := c.FetchProfile(context.Background(), "tok-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("FetchProfile returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("_id not mapped to ID: %+v", user)
	}
	if user.Credits != 3 {
		t.Fatalf("unexpected credits: %d", user.Credits)
	}
}

func TestFetchProfile_AdminPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/admin" {
			t.Fatalf("admin role hint must select the admin path, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"a1","role":"admin"}`))
	})

	if _, err := c.FetchProfile(context.Background(), "tok", domain.RoleAdmin); err != nil {
		t.Fatalf("FetchProfile returned error: %v", err)
	}
}

func TestFetchProfile_UnauthorizedIsExplicit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	})

	_, err := c.FetchProfile(context.Background(), "tok", domain.RoleUser)
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Message != "token expired" {
		t.Fatalf("upstream message lost: %v", err)
	}
}

func TestFetchProfile_ServerErrorIsNotUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchProfile(context.Background(), "tok", domain.RoleUser)
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsUnauthorized(err) {
		t.Fatalf("5xx must not count as an explicit rejection")
	}
}

func TestFetchProfile_MissingIdentifier(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"role":"user","name":"Ghost"}`))
	})

	_, err := c.FetchProfile(context.Background(), "tok", domain.RoleUser)
	if !errors.Is(err, domain.ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestLogin_ReturnsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"token":"tok-1"}`))
	})

	token, err := c.Login(context.Background(), "ada@example.com", "pass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token: %s", token)
	}
}

func TestLogin_UpstreamMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"missing password"}`))
	})

	_, err := c.Login(context.Background(), "ada@example.com", "")
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != http.StatusBadRequest || ue.Message != "missing password" {
		t.Fatalf("expected upstream 400 with message, got %v", err)
	}
}

func TestResetPassword_EscapesToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/auth/reset-password/a%2Fb" {
			t.Fatalf("reset token not escaped: %s", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte(`{"message":"password updated"}`))
	})

	msg, err := c.ResetPassword(context.Background(), "a/b", "newpassword")
	if err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if msg != "password updated" {
		t.Fatalf("unexpected message: %s", msg)
	}
}
