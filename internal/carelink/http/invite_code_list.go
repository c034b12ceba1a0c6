package http

import (
	"net/http"

	"github.com/glucocare/carelink/internal/carelink/service"
	"github.com/glucocare/carelink/pkg/carelinksdk"
	"github.com/glucocare/carelink/pkg/httpx"
)

type InviteCodeListHandler struct {
	InviteCodeService *service.InviteCodeService
}

// ServeHTTP godoc
//
//	@Summary		List Invite Codes
//	@Description	List every invite code issued to the caller, newest first, with whether each can still be redeemed.
//	@Tags			Invite Codes
//	@Produce		json
//	@Success		200	{object}	carelinksdk.ListInviteCodesResponse
//	@Failure		401	{object}	carelinksdk.ErrorResponse
//	@Failure		500	{object}	carelinksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/invite-codes [get].
func (h *InviteCodeListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patientID, ok := httpx.SubjectFromContext(ctx)
	if !ok {
		httpx.WriteUnauthorized(w, httpx.MsgUnauthorized)
		return
	}

	codes, err := h.InviteCodeService.ListInviteCodes(ctx, patientID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := carelinksdk.ListInviteCodesResponse{
		InviteCodes: make([]carelinksdk.InviteCode, 0, len(codes)),
	}
	for _, c := range codes {
		out.InviteCodes = append(out.InviteCodes, carelinksdk.InviteCode{
			Code:       c.Code,
			ExpiresAt:  c.ExpiresAt.UTC(),
			CreatedAt:  c.CreatedAt.UTC(),
			Used:       c.Used,
			Redeemable: c.Redeemable,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
