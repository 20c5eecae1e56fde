// Package identity resolves bearer tokens issued by the external identity
// provider into caller identities. The provider owns token issuance and
// revocation; this package only checks signatures and standard claims.
package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Identity is the verified caller behind a request.
type Identity struct {
	// ID is the provider's subject, used as the owner id on every row.
	ID uuid.UUID
	// Email as asserted by the provider. Never persisted as a source of truth.
	Email string
	// DisplayName from the token's name claim, may be empty.
	DisplayName string
	// AuthenticatedAt is when the provider last authenticated the caller.
	AuthenticatedAt time.Time
}

// Verifier resolves a raw bearer token into an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
