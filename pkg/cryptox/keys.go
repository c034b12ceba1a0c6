// Package cryptox generates key material for local credential minting: HS256
// shared secrets and PKCS8 private keys for the asymmetric algorithms the
// service can verify.
package cryptox

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

// RSAKeyBits is the modulus size used for generated RS256 keys.
const RSAKeyBits = 2048

// GenerateSigningKey returns a new PKCS8 PEM private key for alg
// ("RS256", "ES256" or "EdDSA").
func GenerateSigningKey(alg string) ([]byte, error) {
	var (
		key any
		err error
	)

	switch alg {
	case "RS256":
		key, err = rsa.GenerateKey(rand.Reader, RSAKeyBits)
	case "ES256":
		key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case "EdDSA":
		_, key, err = ed25519.GenerateKey(rand.Reader)
	default:
		return nil, fmt.Errorf("cryptox: unsupported algorithm %q", alg)
	}
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate %s key: %w", alg, err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// GenerateSecret returns n random bytes encoded as unpadded base64url, for use
// as an HS256 shared secret.
func GenerateSecret(n int) (string, error) {
	if n < 32 {
		return "", fmt.Errorf("cryptox: secret must be at least 32 bytes")
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("cryptox: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
