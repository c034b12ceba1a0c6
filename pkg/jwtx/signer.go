package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign JWTs. The service only
// verifies tokens; signers back the dev token tool and tests.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
}

// HMACSigner signs HS256 tokens with a shared secret.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner creates an HS256 signer.
func NewHMACSigner(secret []byte) (*HMACSigner, error) {
	if len(secret) < MinHMACSecretLength {
		return nil, ErrWeakSecret
	}
	return &HMACSigner{secret: append([]byte(nil), secret...)}, nil
}

func (s *HMACSigner) Alg() string { return AlgorithmHS256 }
func (s *HMACSigner) KID() string { return "" }

func (s *HMACSigner) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// KeyPairSigner signs with an RSA, ECDSA P-256 or Ed25519 private key and
// can publish the matching public JWK.
type KeyPairSigner struct {
	kid    string
	alg    string
	method jwt.SigningMethod
	key    crypto.Signer
}

// NewSigner loads a private key from PEM bytes and pairs it with alg. RSA keys
// may be PKCS1 or PKCS8; EC and Ed25519 keys must be PKCS8.
func NewSigner(alg, kid string, pemKey []byte) (*KeyPairSigner, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM private key")
	}

	var parsed any
	var err error
	switch block.Type {
	case "RSA PRIVATE KEY":
		parsed, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("jwtx: unsupported PEM type %q", block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse private key: %w", err)
	}

	s := &KeyPairSigner{kid: kid, alg: alg}
	switch key := parsed.(type) {
	case *rsa.PrivateKey:
		s.method, s.key = jwt.SigningMethodRS256, key
	case *ecdsa.PrivateKey:
		if key.Curve != elliptic.P256() {
			return nil, errors.New("jwtx: ES256 requires a P-256 key")
		}
		s.method, s.key = jwt.SigningMethodES256, key
	case ed25519.PrivateKey:
		s.method, s.key = jwt.SigningMethodEdDSA, key
	default:
		return nil, fmt.Errorf("jwtx: unsupported private key type %T", parsed)
	}

	if s.method.Alg() != alg {
		return nil, fmt.Errorf("%w: key is %s, want %s", ErrAlgMismatch, s.method.Alg(), alg)
	}
	return s, nil
}

func (s *KeyPairSigner) Alg() string { return s.alg }
func (s *KeyPairSigner) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *KeyPairSigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// PublicJWK returns the JWK others use to verify this signer's tokens.
func (s *KeyPairSigner) PublicJWK() JWK {
	switch pub := s.key.Public().(type) {
	case *rsa.PublicKey:
		return NewRSAJWK(s.kid, "sig", s.alg, pub)
	case *ecdsa.PublicKey:
		return NewES256JWK(s.kid, "sig", s.alg, pub)
	case ed25519.PublicKey:
		return NewEd25519JWK(s.kid, "sig", s.alg, pub)
	default:
		return JWK{}
	}
}
