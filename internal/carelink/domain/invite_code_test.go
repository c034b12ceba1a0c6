package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInviteCodeExpiry(t *testing.T) {
	created := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC), InviteCodeExpiry(created))

	// Calendar days, so month lengths and leap years are honoured.
	created = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), InviteCodeExpiry(created))
}

func TestIsRedeemable(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	c := InviteCode{ExpiresAt: now.Add(time.Second)}

	require.True(t, c.IsRedeemable(now))
	require.False(t, c.IsExpired(now))

	require.False(t, c.IsRedeemable(c.ExpiresAt))
	require.True(t, c.IsExpired(c.ExpiresAt))

	c.Used = true
	require.False(t, c.IsRedeemable(now))
}

func TestValidInviteCodeFormat(t *testing.T) {
	for _, code := range []string{"PAT-ABC123", "PAT-000000", "PAT-ZZZZZZ"} {
		require.True(t, ValidInviteCodeFormat(code), code)
	}
	for _, code := range []string{"", "pat-abc123", "PAT-ABC12", "PAT-ABC1234", "PAT_ABC123", "PAT-ABC 23"} {
		require.False(t, ValidInviteCodeFormat(code), code)
	}
}
