package domain

import "time"

const (
	AuditLogin         = "session.login"
	AuditLogout        = "session.logout"
	AuditVerified      = "session.verified"
	AuditVerifyFailed  = "session.verify_failed"
	AuditRefresh       = "session.refresh"
	AuditRefreshFailed = "session.refresh_failed"
)

// AuditEvent records a session lifecycle transition for the audit trail.
type AuditEvent struct {
	Time      time.Time `json:"time"`
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}
