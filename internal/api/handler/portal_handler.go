package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gympulse/member-portal/internal/core/domain"
)

// PortalHandler serves the gated screens. Screens are thin: they render
// from the resolved user injected by the route guard; any further data the
// browser needs it fetches from the gym API itself with the bearer token.
type PortalHandler struct{}

func NewPortalHandler() *PortalHandler {
	return &PortalHandler{}
}

// screenUser pulls the guard-injected user. The guard guarantees it is set
// on every rendered screen; a nil here means a route was registered without
// the guard, which is a wiring bug worth failing loudly on.
func screenUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get("user").(*domain.User)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "screen rendered without session guard")
	}
	return u, nil
}

// Home sends the bare portal root to the dashboard; the guard there decides
// whether the member sees it or the login screen.
//
// @Summary      Portal root
// @Tags         portal
// @Success      303
// @Router       / [get]
func (h *PortalHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

type loginPageResponse struct {
	Fields []string `json:"fields"`
}

// LoginPage is the public login screen shell. Credentials go to POST /login.
//
// @Summary      Login screen
// @Tags         portal
// @Success      200  {object}  loginPageResponse
// @Router       /login [get]
func (h *PortalHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, loginPageResponse{Fields: []string{"email", "password"}})
}

type planOption struct {
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

type subsResponse struct {
	Plans []planOption `json:"plans"`
}

// Subs is the public subscription plans screen. Checkout itself runs against
// the gym API; this only lists what can be bought.
//
// @Summary      Subscription plans screen
// @Tags         portal
// @Success      200  {object}  subsResponse
// @Router       /subs [get]
func (h *PortalHandler) Subs(c echo.Context) error {
	return c.JSON(http.StatusOK, subsResponse{Plans: []planOption{
		{Name: "basic", Credits: 8},
		{Name: "premium", Credits: 16},
	}})
}

type dashboardResponse struct {
	User     *domain.User `json:"user"`
	Greeting string       `json:"greeting"`
}

// Dashboard is the default authenticated landing screen, open to all roles.
//
// @Summary      Member dashboard
// @Tags         portal
// @Success      200  {object}  dashboardResponse
// @Router       /dashboard [get]
func (h *PortalHandler) Dashboard(c echo.Context) error {
	u, err := screenUser(c)
	if err != nil {
		return err
	}
	greeting := "Welcome back"
	if u.Name != "" {
		greeting = "Welcome back, " + u.Name
	}
	return c.JSON(http.StatusOK, dashboardResponse{User: u, Greeting: greeting})
}

type dropInResponse struct {
	UserID  string `json:"user_id"`
	Credits int    `json:"credits"`
	Plan    string `json:"plan,omitempty"`
}

// DropIn is the class drop-in reservation screen (members and coaches).
//
// @Summary      Class drop-in screen
// @Tags         portal
// @Success      200  {object}  dropInResponse
// @Router       /drop-in [get]
func (h *PortalHandler) DropIn(c echo.Context) error {
	u, err := screenUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dropInResponse{UserID: u.ID, Credits: u.Credits, Plan: u.Plan})
}

type coachScheduleResponse struct {
	CoachID string `json:"coach_id"`
	Role    string `json:"role"`
}

// CoachSchedule is the coach scheduling screen (coaches and admins).
//
// @Summary      Coach schedule screen
// @Tags         portal
// @Success      200  {object}  coachScheduleResponse
// @Router       /coach/schedule [get]
func (h *PortalHandler) CoachSchedule(c echo.Context) error {
	u, err := screenUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coachScheduleResponse{CoachID: u.ID, Role: u.Role})
}

type adminMetricsResponse struct {
	AdminID string `json:"admin_id"`
	Notice  string `json:"notice"`
}

// AdminMetrics is the admin metrics dashboard shell (admins only). The
// charts themselves load from the gym API's aggregation endpoints.
//
// @Summary      Admin metrics screen
// @Tags         portal
// @Success      200  {object}  adminMetricsResponse
// @Router       /admin/metrics [get]
func (h *PortalHandler) AdminMetrics(c echo.Context) error {
	u, err := screenUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminMetricsResponse{
		AdminID: u.ID,
		Notice:  "metrics load from the gym API aggregation endpoints",
	})
}

type subscriptionSuccessResponse struct {
	UserID      string    `json:"user_id"`
	Plan        string    `json:"plan,omitempty"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// SubscriptionSuccess is the post-checkout landing screen (all roles).
//
// @Summary      Subscription success screen
// @Tags         portal
// @Success      200  {object}  subscriptionSuccessResponse
// @Router       /subscription/success [get]
func (h *PortalHandler) SubscriptionSuccess(c echo.Context) error {
	u, err := screenUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subscriptionSuccessResponse{
		UserID:      u.ID,
		Plan:        u.Plan,
		ConfirmedAt: time.Now().UTC(),
	})
}
