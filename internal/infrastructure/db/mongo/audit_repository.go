package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gympulse/member-portal/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository is the insert-only Mongo sink for the session audit
// trail. It satisfies ports.AuditSink.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Time      int64  `bson:"time"`
	Type      string `bson:"type"`
	SessionID string `bson:"session_id"`
	UserID    string `bson:"user_id,omitempty"`
	Role      string `bson:"role,omitempty"`
	Reason    string `bson:"reason,omitempty"`
}

func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Time:      event.Time.Unix(),
		Type:      event.Type,
		SessionID: event.SessionID,
		UserID:    event.UserID,
		Role:      event.Role,
		Reason:    event.Reason,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
