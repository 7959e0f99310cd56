package domain

import "time"

const (
	RoleUser  = "user"
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

// AllRoles is the default allow-set for gated screens.
var AllRoles = []string{RoleUser, RoleCoach, RoleAdmin}

// KnownRole reports whether r is one of the fixed portal roles.
func KnownRole(r string) bool {
	return r == RoleUser || r == RoleCoach || r == RoleAdmin
}

// User is the profile resolved from the gym API for a verified token.
// It is never persisted by the portal; only the token is durable.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Role          string    `json:"role"`
	Plan          string    `json:"plan,omitempty"`
	Credits       int       `json:"credits,omitempty"`
	PlanExpiresAt time.Time `json:"plan_expires_at,omitempty"`
}
