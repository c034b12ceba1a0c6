// Package identity maps bearer credentials issued by the hosted platform to
// stable caller ids.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/glucocare/carelink/pkg/jwtx"
	"github.com/glucocare/carelink/pkg/slogx"
)

var (
	ErrInvalidCredential = errors.New("identity: invalid credential")
	ErrMissingSubject    = errors.New("identity: credential has no subject")
	ErrRoleNotAllowed    = errors.New("identity: role not allowed")
)

// Provider resolves a credential to the caller's id.
type Provider interface {
	ResolveIdentity(ctx context.Context, credential string) (string, error)
}

// JWTProvider validates platform access tokens. The caller id is the sub
// claim.
type JWTProvider struct {
	Verifier jwtx.Verifier

	// RequiredRole, when set, must equal the token's role claim.
	RequiredRole string

	// Keys is the verifier's key set for asymmetric algorithms; nil for HS256.
	Keys *jwtx.KeySet

	// Refresher, when set, reloads Keys once when a token names an unknown
	// kid, then verification is retried.
	Refresher KeyRefresher
}

// KeyRefresher reloads verification keys on demand.
type KeyRefresher interface {
	RefreshNow(ctx context.Context) error
}

func (p *JWTProvider) ResolveIdentity(ctx context.Context, credential string) (string, error) {
	log := slogx.FromContext(ctx)

	if credential == "" {
		return "", ErrInvalidCredential
	}

	claims, err := p.Verifier.Verify(credential)
	if errors.Is(err, jwtx.ErrUnknownKID) && p.Refresher != nil {
		if rerr := p.Refresher.RefreshNow(ctx); rerr == nil {
			claims, err = p.Verifier.Verify(credential)
		} else {
			log.Debug("key refresh skipped", "error", rerr)
		}
	}
	if err != nil {
		log.Debug("token verification failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	if claims.Subject == "" {
		return "", ErrMissingSubject
	}

	if p.RequiredRole != "" && claims.Role != p.RequiredRole {
		log.Debug("token role rejected", "role", claims.Role, "required", p.RequiredRole)
		return "", ErrRoleNotAllowed
	}

	return claims.Subject, nil
}

// Ready reports whether the provider can verify tokens. Asymmetric modes are
// not ready until the first JWKS fetch succeeds.
func (p *JWTProvider) Ready() bool {
	return p.Keys == nil || p.Keys.IsReady()
}
