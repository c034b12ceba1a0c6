package cryptox_test

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/glucocare/carelink/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateSigningKey(t *testing.T) {
	cases := map[string]func(t *testing.T, key any){
		"RS256": func(t *testing.T, key any) {
			k, ok := key.(*rsa.PrivateKey)
			require.True(t, ok)
			require.Equal(t, cryptox.RSAKeyBits, k.N.BitLen())
		},
		"ES256": func(t *testing.T, key any) {
			k, ok := key.(*ecdsa.PrivateKey)
			require.True(t, ok)
			require.Equal(t, "P-256", k.Curve.Params().Name)
		},
		"EdDSA": func(t *testing.T, key any) {
			k, ok := key.(ed25519.PrivateKey)
			require.True(t, ok)
			require.Len(t, k, ed25519.PrivateKeySize)
		},
	}

	for alg, check := range cases {
		t.Run(alg, func(t *testing.T) {
			pemBytes, err := cryptox.GenerateSigningKey(alg)
			require.NoError(t, err)

			block, _ := pem.Decode(pemBytes)
			require.NotNil(t, block)
			require.Equal(t, "PRIVATE KEY", block.Type)

			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			require.NoError(t, err)
			check(t, key)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := cryptox.GenerateSigningKey("HS256")
		require.Error(t, err)
	})
}

func TestGenerateSecret(t *testing.T) {
	s, err := cryptox.GenerateSecret(32)
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	other, err := cryptox.GenerateSecret(32)
	require.NoError(t, err)
	require.NotEqual(t, s, other)

	_, err = cryptox.GenerateSecret(16)
	require.Error(t, err)
}
