package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gympulse/member-portal/internal/api/middleware"
	"github.com/gympulse/member-portal/internal/core/domain"
	"github.com/gympulse/member-portal/internal/core/ports"
)

// AuthHandler fronts the gym API's credential endpoints and drives the
// session service with their results.
type AuthHandler struct {
	gym      ports.GymAPI
	sessions ports.SessionService
}

func NewAuthHandler(gym ports.GymAPI, sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{gym: gym, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type sessionResponse struct {
	User        *domain.User `json:"user"`
	AuthLoading bool         `json:"auth_loading"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token upstream, then establishes the
// portal session with it.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.gym.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	snap, err := h.sessions.Login(c.Request().Context(), middleware.SessionID(c), token)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyToken) || errors.Is(err, domain.ErrInvalidToken) {
			return echo.NewHTTPError(http.StatusBadGateway, "could not process session token")
		}
		return err
	}
	if snap.User == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not verify session, please log in again")
	}

	return c.JSON(http.StatusOK, sessionResponse{User: snap.User, AuthLoading: snap.AuthLoading})
}

// Register creates an account upstream and logs the new member in.
//
// @Summary      Register a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.gym.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	snap, err := h.sessions.Login(c.Request().Context(), middleware.SessionID(c), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "could not process session token")
	}

	return c.JSON(http.StatusCreated, sessionResponse{User: snap.User, AuthLoading: snap.AuthLoading})
}

// ForgotPassword forwards a reset request; the mail goes out upstream.
//
// @Summary      Request a password reset
// @Tags         auth
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.gym.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// ResetPassword completes a reset flow with the emailed token.
//
// @Summary      Complete a password reset
// @Tags         auth
// @Router       /reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.gym.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Logout tears the session down. Always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context(), middleware.SessionID(c))
	return c.NoContent(http.StatusNoContent)
}

// Session returns the current snapshot for the browser shell.
//
// @Summary      Current session snapshot
// @Tags         auth
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	snap := h.sessions.Snapshot(middleware.SessionID(c))
	return c.JSON(http.StatusOK, sessionResponse{User: snap.User, AuthLoading: snap.AuthLoading})
}

// RefreshSession re-fetches the profile after the browser performed a
// mutation (booked a class, spent a credit). Never logs the member out on
// a transient failure.
//
// @Summary      Refresh the resolved profile
// @Tags         auth
// @Success      200  {object}  sessionResponse
// @Router       /session/refresh [post]
func (h *AuthHandler) RefreshSession(c echo.Context) error {
	snap := h.sessions.Refresh(c.Request().Context(), middleware.SessionID(c))
	return c.JSON(http.StatusOK, sessionResponse{User: snap.User, AuthLoading: snap.AuthLoading})
}
