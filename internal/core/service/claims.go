package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gympulse/member-portal/internal/core/domain"
)

// TokenClaims are the fields embedded in a bearer token that can be read
// without contacting the gym API. They are not trustworthy until the backend
// verifies the token; the portal uses them only to fail fast on garbage and
// to pick the role-specific profile path.
type TokenClaims struct {
	SubjectID string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the embedded expiry lies before now. Tokens
// without an exp claim are not considered locally expired.
func (tc TokenClaims) Expired(now time.Time) bool {
	return !tc.ExpiresAt.IsZero() && tc.ExpiresAt.Before(now)
}

// DecodeClaims parses token without signature verification and extracts the
// subject id, role and expiry claims. A missing id or role claim makes the
// token structurally invalid.
func DecodeClaims(token string) (TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	sub, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return TokenClaims{}, fmt.Errorf("%w: missing id or role claim", domain.ErrInvalidToken)
	}

	tc := TokenClaims{SubjectID: sub, Role: role}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	return tc, nil
}
