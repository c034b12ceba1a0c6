package carelinksdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to a carelink deployment.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a 10 second request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session is a Client bound to one caller's access token.
type Session struct {
	client *Client
	token  string
}

// WithToken returns a Session that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Session {
	return &Session{client: c, token: token}
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GenerateInviteCode issues a new invite code for the session's user.
func (s *Session) GenerateInviteCode(ctx context.Context) (*GenerateInviteCodeResponse, error) {
	var out GenerateInviteCodeResponse
	if err := s.client.do(ctx, http.MethodPost, "/v1/invite-codes", s.token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInviteCodes returns the session user's codes, newest first.
func (s *Session) ListInviteCodes(ctx context.Context) ([]InviteCode, error) {
	var out ListInviteCodesResponse
	if err := s.client.do(ctx, http.MethodGet, "/v1/invite-codes", s.token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.InviteCodes, nil
}

// RedeemInviteCode links the session user as a caregiver of the code's patient.
func (s *Session) RedeemInviteCode(ctx context.Context, code string) (*CaregiverLink, error) {
	var out CaregiverLink
	req := RedeemInviteCodeRequest{Code: code}
	if err := s.client.do(ctx, http.MethodPost, "/v1/invite-codes/redeem", s.token, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCaregivers returns the caregivers linked to the session user.
func (s *Session) ListCaregivers(ctx context.Context) ([]CaregiverLink, error) {
	var out ListLinksResponse
	if err := s.client.do(ctx, http.MethodGet, "/v1/caregivers", s.token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Links, nil
}

// ListPatients returns the patients the session user cares for.
func (s *Session) ListPatients(ctx context.Context) ([]CaregiverLink, error) {
	var out ListLinksResponse
	if err := s.client.do(ctx, http.MethodGet, "/v1/patients", s.token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Links, nil
}
