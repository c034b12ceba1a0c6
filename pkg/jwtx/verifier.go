package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing algorithms.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// MinHMACSecretLength is the shortest HS256 secret accepted.
const MinHMACSecretLength = 32

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values the token must contain (claims.aud). Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrWeakSecret  = errors.New("jwtx: hmac secret too short")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// NewHMACVerifier returns an HS256 verifier for a shared secret.
func NewHMACVerifier(secret []byte, opts VerifyOptions) (Verifier, error) {
	if len(secret) < MinHMACSecretLength {
		return nil, ErrWeakSecret
	}

	key := append([]byte(nil), secret...)
	return &verifier{
		alg:  AlgorithmHS256,
		opts: opts,
		keyFunc: func(*jwt.Token) (any, error) {
			return key, nil
		},
	}, nil
}

// NewKeySetVerifier returns a verifier for an asymmetric algorithm. Tokens
// must carry a kid naming a key in keys of the matching type.
func NewKeySetVerifier(alg string, keys *KeySet, opts VerifyOptions) (Verifier, error) {
	switch alg {
	case AlgorithmRS256, AlgorithmES256, AlgorithmEdDSA:
	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrAlgMismatch, alg)
	}

	return &verifier{
		alg:  alg,
		opts: opts,
		keyFunc: func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("%w: missing kid", ErrUnknownKID)
			}

			pub, err := keys.Get(kid)
			if err != nil {
				return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
			}

			if !keyMatchesAlg(alg, pub) {
				return nil, fmt.Errorf("%w: key %q is not usable for %s", ErrAlgMismatch, kid, alg)
			}
			return pub, nil
		},
	}, nil
}

func keyMatchesAlg(alg string, key any) bool {
	switch key.(type) {
	case *rsa.PublicKey:
		return alg == AlgorithmRS256
	case *ecdsa.PublicKey:
		return alg == AlgorithmES256
	case ed25519.PublicKey:
		return alg == AlgorithmEdDSA
	default:
		return false
	}
}

type verifier struct {
	alg     string
	opts    VerifyOptions
	keyFunc jwt.Keyfunc
}

func (v *verifier) now() time.Time {
	if v.opts.Now != nil {
		return v.opts.Now()
	}
	return time.Now()
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{v.alg}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.opts.Leeway),
		jwt.WithTimeFunc(v.now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, v.keyFunc)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	// Now check all the claim requirements
	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(v.now(), v.opts.Leeway); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// mapParseError translates golang-jwt errors into this package's sentinels
// while keeping the original error in the chain.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID), errors.Is(err, ErrAlgMismatch):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %w", ErrNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}
}
