package carelinksdk

import "time"

// ============================================================================
// Invite Codes
// ============================================================================

// GenerateInviteCodeResponse is returned by POST /v1/invite-codes.
type GenerateInviteCodeResponse struct {
	// Code is the shareable code, e.g. "PAT-7K2Q9M"
	Code string `json:"code" example:"PAT-7K2Q9M"`

	// ExpiresAt is 30 calendar days after issuance (RFC 3339, UTC)
	ExpiresAt time.Time `json:"expires_at" example:"2024-07-15T10:00:00Z"`
}

// InviteCode is one entry of the caller's code history.
type InviteCode struct {
	Code       string    `json:"code"       example:"PAT-7K2Q9M"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	Used       bool      `json:"used"`
	Redeemable bool      `json:"redeemable"`
}

// ListInviteCodesResponse is returned by GET /v1/invite-codes, newest first.
type ListInviteCodesResponse struct {
	InviteCodes []InviteCode `json:"invite_codes"`
}

// RedeemInviteCodeRequest is the body of POST /v1/invite-codes/redeem.
type RedeemInviteCodeRequest struct {
	Code string `json:"code" example:"PAT-7K2Q9M"`
}

// ============================================================================
// Caregiver Links
// ============================================================================

// CaregiverLink is a patient/caregiver pairing created by redemption.
type CaregiverLink struct {
	LinkID      string    `json:"link_id"`
	PatientID   string    `json:"patient_id"`
	CaregiverID string    `json:"caregiver_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListLinksResponse is returned by GET /v1/caregivers and GET /v1/patients.
type ListLinksResponse struct {
	Links []CaregiverLink `json:"links"`
}

// ============================================================================
// Errors & Health
// ============================================================================

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	// Error is a human-readable message
	Error string `json:"error" example:"Unauthorized"`

	// Code is a machine-readable code, omitted for authentication failures
	Code string `json:"code,omitempty" example:"invite_code_used"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of the service's dependencies.
type HealthChecks struct {
	// Database is the invite code store
	Database string `json:"database"`

	// Identity is token verification (JWKS loaded, or a shared secret configured)
	Identity string `json:"identity"`
}
