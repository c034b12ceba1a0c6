package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/glucocare/carelink/pkg/cryptox"
	"github.com/glucocare/carelink/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("super-secret-jwt-token-with-at-least-32-characters-long")

func testOptions() jwtx.VerifyOptions {
	return jwtx.VerifyOptions{
		Issuer:   "https://auth.example",
		Audience: []string{"authenticated"},
	}
}

func validClaims() jwtx.Claims {
	return jwtx.NewClaims("patient-1", "authenticated", "https://auth.example", []string{"authenticated"}, time.Hour, time.Now())
}

func TestHMACVerifier(t *testing.T) {
	signer, err := jwtx.NewHMACSigner(testSecret)
	require.NoError(t, err)

	v, err := jwtx.NewHMACVerifier(testSecret, testOptions())
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		token, err := signer.Sign(validClaims())
		require.NoError(t, err)

		claims, err := v.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "patient-1", claims.Subject)
		require.Equal(t, "authenticated", claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewHMACSigner([]byte(strings.Repeat("x", 40)))
		require.NoError(t, err)

		token, err := other.Sign(validClaims())
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("expired", func(t *testing.T) {
		c := jwtx.NewClaims("patient-1", "authenticated", "https://auth.example", []string{"authenticated"}, time.Minute, time.Now().Add(-time.Hour))
		token, err := signer.Sign(c)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("missing exp", func(t *testing.T) {
		c := validClaims()
		c.ExpiresAt = nil
		token, err := signer.Sign(c)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.Error(t, err)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		c := validClaims()
		c.Issuer = "https://evil.example"
		token, err := signer.Sign(c)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		c := validClaims()
		c.Audience = []string{"service_role"}
		token, err := signer.Sign(c)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("injected clock", func(t *testing.T) {
		token, err := signer.Sign(validClaims())
		require.NoError(t, err)

		opts := testOptions()
		opts.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		late, err := jwtx.NewHMACVerifier(testSecret, opts)
		require.NoError(t, err)

		_, err = late.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestHMACRejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewHMACVerifier([]byte("short"), testOptions())
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewHMACSigner([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestKeySetVerifier(t *testing.T) {
	for _, alg := range []string{jwtx.AlgorithmRS256, jwtx.AlgorithmES256, jwtx.AlgorithmEdDSA} {
		t.Run(alg, func(t *testing.T) {
			pemKey, err := cryptox.GenerateSigningKey(alg)
			require.NoError(t, err)

			signer, err := jwtx.NewSigner(alg, "key-1", pemKey)
			require.NoError(t, err)
			require.Equal(t, alg, signer.Alg())

			keys := jwtx.NewKeySet()
			require.NoError(t, keys.AddJWK(signer.PublicJWK()))

			v, err := jwtx.NewKeySetVerifier(alg, keys, testOptions())
			require.NoError(t, err)

			token, err := signer.Sign(validClaims())
			require.NoError(t, err)

			claims, err := v.Verify(token)
			require.NoError(t, err)
			require.Equal(t, "patient-1", claims.Subject)

			// Same key material under a kid the verifier has never seen.
			stranger, err := jwtx.NewSigner(alg, "key-2", pemKey)
			require.NoError(t, err)
			token, err = stranger.Sign(validClaims())
			require.NoError(t, err)

			_, err = v.Verify(token)
			require.ErrorIs(t, err, jwtx.ErrUnknownKID)
		})
	}
}

func TestKeySetVerifierRejectsOtherAlgorithms(t *testing.T) {
	pemKey, err := cryptox.GenerateSigningKey(jwtx.AlgorithmES256)
	require.NoError(t, err)

	signer, err := jwtx.NewSigner(jwtx.AlgorithmES256, "key-1", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddJWK(signer.PublicJWK()))

	v, err := jwtx.NewKeySetVerifier(jwtx.AlgorithmRS256, keys, testOptions())
	require.NoError(t, err)

	token, err := signer.Sign(validClaims())
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.Error(t, err)

	// HS256 tokens must never be accepted by an asymmetric verifier.
	hmac, err := jwtx.NewHMACSigner(testSecret)
	require.NoError(t, err)
	token, err = hmac.Sign(validClaims())
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.Error(t, err)

	_, err = jwtx.NewKeySetVerifier(jwtx.AlgorithmHS256, keys, testOptions())
	require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
}

func TestNewSignerRejectsMismatchedKey(t *testing.T) {
	pemKey, err := cryptox.GenerateSigningKey(jwtx.AlgorithmEdDSA)
	require.NoError(t, err)

	_, err = jwtx.NewSigner(jwtx.AlgorithmRS256, "key-1", pemKey)
	require.ErrorIs(t, err, jwtx.ErrAlgMismatch)

	_, err = jwtx.NewSigner(jwtx.AlgorithmEdDSA, "key-1", []byte("not pem"))
	require.Error(t, err)
}
