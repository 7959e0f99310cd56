package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gympulse/member-portal/internal/api/metrics"
	"github.com/gympulse/member-portal/internal/core/domain"
	"github.com/gympulse/member-portal/internal/core/ports"
)

// Outcome is a route guard decision for a requested screen.
type Outcome int

const (
	Render Outcome = iota
	ShowLoading
	RedirectLogin
	RedirectHome
)

const (
	loginPath = "/login"
	homePath  = "/dashboard"
)

// loadingBody is the neutral placeholder served while the first session
// verification is still in flight. The Refresh header makes the browser
// retry once the answer exists instead of flashing a redirect to login.
const loadingBody = `<!doctype html><title>Loading</title><p>Loading…</p>`

// Decide is the route guard: a pure function of the session snapshot and
// the screen's declared allowed roles. Gating order matters — the loading
// check comes first so an unresolved session is never mistaken for an
// anonymous one, and a wrong role sends the member to their own home, not
// to a denial page.
func Decide(snap domain.Snapshot, allowedRoles []string) Outcome {
	if snap.AuthLoading {
		return ShowLoading
	}
	if snap.User == nil {
		return RedirectLogin
	}
	for _, r := range allowedRoles {
		if snap.User.Role == r {
			return Render
		}
	}
	return RedirectHome
}

// Guard gates a screen on the current session. Screens declare their
// allowed roles at route registration; omitting them allows all three
// portal roles. On Render the resolved user is injected into the context
// under "user".
func Guard(sessions ports.SessionService, allowedRoles ...string) echo.MiddlewareFunc {
	if len(allowedRoles) == 0 {
		allowedRoles = domain.AllRoles
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := sessions.Snapshot(SessionID(c))

			switch Decide(snap, allowedRoles) {
			case ShowLoading:
				metrics.GuardDecisionsTotal.WithLabelValues("loading").Inc()
				c.Response().Header().Set("Refresh", "1")
				return c.HTML(http.StatusOK, loadingBody)
			case RedirectLogin:
				metrics.GuardDecisionsTotal.WithLabelValues("redirect_login").Inc()
				return c.Redirect(http.StatusSeeOther, loginPath)
			case RedirectHome:
				metrics.GuardDecisionsTotal.WithLabelValues("redirect_home").Inc()
				return c.Redirect(http.StatusSeeOther, homePath)
			}

			metrics.GuardDecisionsTotal.WithLabelValues("render").Inc()
			c.Set("user", snap.User)
			return next(c)
		}
	}
}
