package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gympulse/member-portal/internal/core/ports"
)

const (
	// SessionCookie names the cookie carrying the portal session ID.
	SessionCookie = "gym_sid"

	sessionIDKey = "session_id"
)

// PortalSession assigns each browser a session ID cookie and runs the
// session service's one-time Initialize for it, so by the time any guard
// decision other than "show loading" is made, the initial verification has
// completed.
func PortalSession(sessions ports.SessionService, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				sid = cookie.Value
			} else {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionIDKey, sid)
			sessions.Initialize(c.Request().Context(), sid)
			return next(c)
		}
	}
}

// SessionID extracts the portal session ID set by PortalSession.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionIDKey).(string)
	return sid
}
