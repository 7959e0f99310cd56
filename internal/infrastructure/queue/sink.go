package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gympulse/member-portal/internal/core/domain"
	"github.com/gympulse/member-portal/internal/core/ports"
)

// LogSink writes audit events to the structured log. Used when no Mongo
// sink is configured so the trail still lands somewhere.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(_ context.Context, event domain.AuditEvent) error {
	s.log.Info().
		Str("type", event.Type).
		Str("session_id", event.SessionID).
		Str("user_id", event.UserID).
		Str("role", event.Role).
		Str("reason", event.Reason).
		Time("at", event.Time).
		Msg("session audit")
	return nil
}

var _ ports.AuditSink = (*LogSink)(nil)
