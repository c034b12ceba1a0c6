package http

import (
	"errors"
	"net/http"

	"github.com/glucocare/carelink/internal/carelink/service"
	"github.com/glucocare/carelink/pkg/carelinksdk"
	"github.com/glucocare/carelink/pkg/httpx"
	"github.com/glucocare/carelink/pkg/slogx"
)

// writeServiceError maps service sentinels to status codes for the
// authenticated routes. Unknown errors are logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteUnauthorized(w, httpx.MsgUnauthorized)
	case errors.Is(err, service.ErrBadRequest):
		httpx.WriteError(w, http.StatusBadRequest, "Invite code must look like PAT-XXXXXX", carelinksdk.ErrorCodeInvalidRequest)
	case errors.Is(err, service.ErrSelfRedemption):
		httpx.WriteError(w, http.StatusBadRequest, "You cannot redeem your own invite code", carelinksdk.ErrorCodeSelfRedemption)
	case errors.Is(err, service.ErrInviteCodeNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Invite code not found", carelinksdk.ErrorCodeInviteCodeNotFound)
	case errors.Is(err, service.ErrInviteCodeUsed):
		httpx.WriteError(w, http.StatusConflict, "Invite code has already been used", carelinksdk.ErrorCodeInviteCodeUsed)
	case errors.Is(err, service.ErrInviteCodeInvalid):
		httpx.WriteError(w, http.StatusConflict, "Invite code has expired", carelinksdk.ErrorCodeInviteCodeExpired)
	case errors.Is(err, service.ErrAlreadyLinked):
		httpx.WriteError(w, http.StatusConflict, "Already linked to this patient", carelinksdk.ErrorCodeAlreadyLinked)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", carelinksdk.ErrorCodeServerError)
	}
}
