package domain

import (
	"regexp"
	"time"
)

const (
	// InviteCodePrefix is prepended to every patient invite code.
	InviteCodePrefix = "PAT-"

	// InviteCodeAlphabet is the set each random code character is drawn from.
	InviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// InviteCodeRandomLength is the number of random characters after the prefix.
	InviteCodeRandomLength = 6

	// InviteCodeTTLDays is how many calendar days a code stays redeemable.
	InviteCodeTTLDays = 30
)

var inviteCodePattern = regexp.MustCompile(`^PAT-[A-Z0-9]{6}$`)

// InviteCode is a shareable code a patient hands to a caregiver.
type InviteCode struct {
	ID        string
	PatientID string
	Code      string
	ExpiresAt time.Time
	Used      bool
	UsedBy    string // Empty until redeemed
	CreatedAt time.Time
}

// IsRedeemable is the only validity rule for a code: not used and not expired.
func (c InviteCode) IsRedeemable(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}

// IsExpired reports whether the code has passed its expiry at now.
func (c InviteCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// InviteCodeExpiry returns the expiry for a code created at createdAt.
// Calendar-day arithmetic, not a fixed number of hours.
func InviteCodeExpiry(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, InviteCodeTTLDays)
}

// ValidInviteCodeFormat reports whether code looks like PAT-XXXXXX.
func ValidInviteCodeFormat(code string) bool {
	return inviteCodePattern.MatchString(code)
}
