package ports

import (
	"context"

	"github.com/gympulse/member-portal/internal/core/domain"
)

// ProfileClient fetches the profile backing a bearer token from the gym API.
// roleHint is the locally decoded role claim and selects the role-specific
// profile path; it is routing only, never an authorization decision.
type ProfileClient interface {
	FetchProfile(ctx context.Context, token, roleHint string) (*domain.User, error)
}

// RegisterInput carries the fields forwarded to the gym API on sign-up.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// GymAPI is the full upstream auth surface consumed by the portal handlers.
// All methods pass the upstream {message} envelope through as
// *domain.UpstreamError on non-2xx responses.
type GymAPI interface {
	ProfileClient

	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, in RegisterInput) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) (string, error)
}
