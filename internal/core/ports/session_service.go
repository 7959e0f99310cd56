package ports

import (
	"context"

	"github.com/gympulse/member-portal/internal/core/domain"
)

// SessionService is the single authority for "who is the current user, and
// are we sure yet" for each portal session.
type SessionService interface {
	// Initialize runs the first token seed + verification for a session.
	// Subsequent calls for the same session ID are no-ops returning the
	// current snapshot. Verification failures resolve to an anonymous
	// snapshot; Initialize itself never fails.
	Initialize(ctx context.Context, sessionID string) domain.Snapshot

	// Login stores a new bearer token and verifies it. It returns an error
	// only for a structurally empty or undecodable token; upstream
	// verification failures resolve into the returned snapshot instead.
	Login(ctx context.Context, sessionID, token string) (domain.Snapshot, error)

	// Logout clears user and token from memory and the durable slot.
	// It cannot fail.
	Logout(ctx context.Context, sessionID string)

	// Refresh re-fetches the profile without toggling the loading flag.
	// Only an explicit upstream rejection clears the session; transient
	// failures leave it untouched.
	Refresh(ctx context.Context, sessionID string) domain.Snapshot

	// Snapshot returns the current view without side effects.
	Snapshot(sessionID string) domain.Snapshot
}
