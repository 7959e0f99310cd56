package ports

import (
	"context"

	"github.com/gympulse/member-portal/internal/core/domain"
)

// AuditRecorder accepts session lifecycle events without blocking the
// session path. Implementations may drop events under backpressure.
type AuditRecorder interface {
	Enqueue(event domain.AuditEvent)
}

// AuditSink persists audit events delivered by the dispatcher workers.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
