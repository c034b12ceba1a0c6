package http

import (
	"errors"
	"net/http"

	"github.com/glucocare/carelink/internal/carelink/service"
	"github.com/glucocare/carelink/pkg/carelinksdk"
	"github.com/glucocare/carelink/pkg/httpx"
	"github.com/glucocare/carelink/pkg/slogx"
)

const (
	msgCodeSpaceExhausted = "Failed to generate unique invite code"
	msgCreateFailed       = "Failed to create invite code"
)

type InviteCodeGenerateHandler struct {
	InviteCodeService *service.InviteCodeService
}

// ServeHTTP godoc
//
//	@Summary		Generate Invite Code
//	@Description	Issue a new invite code for the calling patient. The code has the form PAT-XXXXXX and expires 30 calendar days after issuance.
//	@Description	No request body is read; the caller is identified solely by the bearer token.
//	@Tags			Invite Codes
//	@Produce		json
//	@Success		200	{object}	carelinksdk.GenerateInviteCodeResponse	"code, expires_at"
//	@Failure		401	{object}	carelinksdk.ErrorResponse				"Missing authorization header, or Unauthorized"
//	@Failure		429	{object}	carelinksdk.ErrorResponse				"rate limit exceeded"
//	@Failure		500	{object}	carelinksdk.ErrorResponse				"store failure or code space exhausted"
//	@Security		BearerAuth
//	@Router			/v1/invite-codes [post].
func (h *InviteCodeGenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.WriteUnauthorized(w, httpx.MsgMissingAuthorization)
		return
	}

	code, err := h.InviteCodeService.Generate(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			httpx.WriteUnauthorized(w, httpx.MsgUnauthorized)
		case errors.Is(err, service.ErrBadRequest):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid request", carelinksdk.ErrorCodeInvalidRequest)
		case errors.Is(err, service.ErrCodeSpaceExhausted):
			httpx.WriteError(w, http.StatusInternalServerError, msgCodeSpaceExhausted, carelinksdk.ErrorCodeCodeSpaceExhausted)
		default:
			log.Error("failed to generate invite code", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, msgCreateFailed, carelinksdk.ErrorCodeServerError)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, carelinksdk.GenerateInviteCodeResponse{
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt.UTC(),
	})
}
