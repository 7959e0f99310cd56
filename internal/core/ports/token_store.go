package ports

import "context"

// TokenStore is the durable slot holding the bearer token for each portal
// session. Only the opaque token is ever persisted; profiles are always
// re-fetched. Absence is reported as domain.ErrNoToken.
type TokenStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Put(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}
