package carelinksdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes carried in ErrorResponse.Code.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInviteCodeNotFound = "invite_code_not_found"
	ErrorCodeInviteCodeExpired  = "invite_code_expired"
	ErrorCodeInviteCodeUsed     = "invite_code_used"
	ErrorCodeSelfRedemption     = "self_redemption"
	ErrorCodeAlreadyLinked      = "already_linked"
	ErrorCodeCodeSpaceExhausted = "code_space_exhausted"
	ErrorCodeServerError        = "server_error"
	ErrorCodeRateLimitExceeded  = "rate_limit_exceeded"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("carelink: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("carelink: %d: %s", e.StatusCode, e.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// parseErrorResponse turns an error body into an APIError, falling back to
// the status text when the body is not the service's JSON shape.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Error,
			Code:       errResp.Code,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
