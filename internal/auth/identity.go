package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnauthenticated is returned for a missing, invalid, expired or revoked
// credential.
var ErrUnauthenticated = errors.New("authentication required")

// Identity is the resolved owner of a request.
type Identity struct {
	UserID    int64
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Resolver turns a bearer credential into an Identity.
type Resolver interface {
	ResolveIdentity(ctx context.Context, credential string) (Identity, error)
}

// TokenResolver resolves identities from signed access tokens. A nil
// revocation store disables revocation checks.
type TokenResolver struct {
	tokens  *TokenManager
	revoked *RevocationStore
}

func NewTokenResolver(tokens *TokenManager, revoked *RevocationStore) *TokenResolver {
	return &TokenResolver{tokens: tokens, revoked: revoked}
}

func (r *TokenResolver) ResolveIdentity(ctx context.Context, credential string) (Identity, error) {
	claims, err := r.tokens.Validate(credential)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if r.revoked != nil {
		revoked, err := r.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Identity{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return Identity{}, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
		}
	}
	return Identity{
		UserID:    userID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the identity's token. It is a no-op without a
// revocation store.
func (r *TokenResolver) Revoke(ctx context.Context, id Identity) error {
	if r.revoked == nil {
		return nil
	}
	return r.revoked.Revoke(ctx, id.TokenID, id.ExpiresAt)
}
