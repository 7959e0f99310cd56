package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestPortalSession_IssuesCookie(t *testing.T) {
	sessions := &stubSessions{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	mw := PortalSession(sessions, false)
	handler := mw(func(c echo.Context) error {
		seen = SessionID(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if seen == "" {
		t.Fatalf("session id not set on context")
	}
	if sessions.initialized != 1 {
		t.Fatalf("expected one Initialize call, got %d", sessions.initialized)
	}

	res := rec.Result()
	var cookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == SessionCookie {
			cookie = ck
		}
	}
	if cookie == nil {
		t.Fatalf("session cookie not set")
	}
	if cookie.Value != seen {
		t.Fatalf("cookie value %q does not match context id %q", cookie.Value, seen)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
}

func TestPortalSession_ReusesCookie(t *testing.T) {
	sessions := &stubSessions{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-42"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := PortalSession(sessions, false)
	handler := mw(func(c echo.Context) error {
		if SessionID(c) != "sid-42" {
			t.Fatalf("expected existing session id, got %q", SessionID(c))
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == SessionCookie {
			t.Fatalf("existing session must not get a new cookie")
		}
	}
}
