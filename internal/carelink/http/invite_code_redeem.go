package http

import (
	"encoding/json"
	"net/http"

	"github.com/glucocare/carelink/internal/carelink/service"
	"github.com/glucocare/carelink/pkg/carelinksdk"
	"github.com/glucocare/carelink/pkg/httpx"
)

// maxRedeemBody caps the request body; a redeem request is a single short code.
const maxRedeemBody = 4 << 10

type InviteCodeRedeemHandler struct {
	InviteCodeService *service.InviteCodeService
}

// ServeHTTP godoc
//
//	@Summary		Redeem Invite Code
//	@Description	Consume a patient's invite code and link the caller to that patient as a caregiver.
//	@Description	Codes are matched case-insensitively and can be redeemed once, before they expire.
//	@Tags			Invite Codes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		carelinksdk.RedeemInviteCodeRequest	true	"Invite code"
//	@Success		200		{object}	carelinksdk.CaregiverLink			"link_id, patient_id, caregiver_id, created_at"
//	@Failure		400		{object}	carelinksdk.ErrorResponse			"malformed code or own code"
//	@Failure		401		{object}	carelinksdk.ErrorResponse
//	@Failure		404		{object}	carelinksdk.ErrorResponse			"unknown code"
//	@Failure		409		{object}	carelinksdk.ErrorResponse			"code used or expired, or already linked"
//	@Failure		429		{object}	carelinksdk.ErrorResponse
//	@Failure		500		{object}	carelinksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/invite-codes/redeem [post].
func (h *InviteCodeRedeemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caregiverID, ok := httpx.SubjectFromContext(ctx)
	if !ok {
		httpx.WriteUnauthorized(w, httpx.MsgUnauthorized)
		return
	}

	var req carelinksdk.RedeemInviteCodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRedeemBody)).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body", carelinksdk.ErrorCodeInvalidRequest)
		return
	}
	if req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "code is required", carelinksdk.ErrorCodeInvalidRequest)
		return
	}

	link, err := h.InviteCodeService.Redeem(ctx, caregiverID, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toCaregiverLink(link))
}
