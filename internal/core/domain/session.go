package domain

import (
	"errors"
	"fmt"
)

var ErrEmptyToken = errors.New("empty token")
var ErrInvalidToken = errors.New("invalid token")
var ErrNoToken = errors.New("no token stored")
var ErrProfileIncomplete = errors.New("profile response missing identifier")

// Snapshot is the read-only view of a portal session handed to the route
// guard and the browser shell.
//
// Invariant: User != nil implies the backing token was verified against the
// gym API at least once since being stored. AuthLoading is true only while
// the first verification for this session is in flight.
type Snapshot struct {
	User        *User `json:"user"`
	AuthLoading bool  `json:"auth_loading"`
}

// Authenticated reports whether the session resolved to a verified user.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// UpstreamError is a non-2xx response from the gym API, carrying the status
// and the upstream message envelope.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gym api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("gym api: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is an explicit 401/403 rejection from
// the gym API, as opposed to a transient transport or server failure. The
// session service clears state on rejection but tolerates everything else
// during Refresh.
func IsUnauthorized(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode == 401 || ue.StatusCode == 403
	}
	return false
}
