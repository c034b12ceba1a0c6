package app

import (
	"fmt"
	"log/slog"

	"github.com/glucocare/carelink/internal/carelink/identity"
	"github.com/glucocare/carelink/pkg/jwtx"
)

// InitIdentity builds the token verifier for the configured algorithm.
//
// Modes:
//   - HS256: tokens are checked against the platform's shared JWT secret.
//   - RS256/ES256/EdDSA: public keys come from the platform's JWKS endpoint.
//     The returned refresher must be started; until its first fetch succeeds
//     the provider reports not ready. Failed fetches are retried with
//     backoff, and a token naming an unknown kid triggers an early reload.
//
// The refresher is nil in HS256 mode.
func InitIdentity(cfg Config, logger *slog.Logger) (*identity.JWTProvider, *jwtx.JWKSRefresher, error) {
	opts := jwtx.VerifyOptions{
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	}

	switch cfg.JWTAlgorithm {
	case jwtx.AlgorithmHS256:
		v, err := jwtx.NewHMACVerifier([]byte(cfg.JWTSecret), opts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize HS256 verifier: %w", err)
		}

		logger.Info("token verification configured",
			"algorithm", cfg.JWTAlgorithm,
			"issuer", cfg.JWTIssuer,
			"audience", cfg.JWTAudience,
			"required_role", cfg.RequiredRole,
		)
		return &identity.JWTProvider{Verifier: v, RequiredRole: cfg.RequiredRole}, nil, nil

	default:
		keys := jwtx.NewKeySet()
		v, err := jwtx.NewKeySetVerifier(cfg.JWTAlgorithm, keys, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize %s verifier: %w", cfg.JWTAlgorithm, err)
		}

		refresher := jwtx.NewJWKSRefresher(cfg.JWKSURL, keys, logger, cfg.JWKSRefreshInterval)

		logger.Info("token verification configured",
			"algorithm", cfg.JWTAlgorithm,
			"jwks_url", cfg.JWKSURL,
			"refresh_interval", cfg.JWKSRefreshInterval,
			"issuer", cfg.JWTIssuer,
			"audience", cfg.JWTAudience,
			"required_role", cfg.RequiredRole,
		)
		return &identity.JWTProvider{
			Verifier:     v,
			RequiredRole: cfg.RequiredRole,
			Keys:         keys,
			Refresher:    refresher,
		}, refresher, nil
	}
}
