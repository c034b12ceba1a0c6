package http

import (
	"context"
	"net/http"

	"github.com/glucocare/carelink/internal/carelink/domain"
	"github.com/glucocare/carelink/internal/carelink/service"
	"github.com/glucocare/carelink/pkg/carelinksdk"
	"github.com/glucocare/carelink/pkg/httpx"
)

type CaregiversHandler struct {
	InviteCodeService *service.InviteCodeService
}

// HandleListCaregivers godoc
//
//	@Summary		List Caregivers
//	@Description	List the caregivers linked to the calling patient.
//	@Tags			Caregivers
//	@Produce		json
//	@Success		200	{object}	carelinksdk.ListLinksResponse
//	@Failure		401	{object}	carelinksdk.ErrorResponse
//	@Failure		500	{object}	carelinksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/caregivers [get].
func (h *CaregiversHandler) HandleListCaregivers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.InviteCodeService.ListCaregivers)
}

// HandleListPatients godoc
//
//	@Summary		List Patients
//	@Description	List the patients the caller is linked to as a caregiver.
//	@Tags			Caregivers
//	@Produce		json
//	@Success		200	{object}	carelinksdk.ListLinksResponse
//	@Failure		401	{object}	carelinksdk.ErrorResponse
//	@Failure		500	{object}	carelinksdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/patients [get].
func (h *CaregiversHandler) HandleListPatients(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.InviteCodeService.ListPatients)
}

func (h *CaregiversHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	fetch func(ctx context.Context, id string) ([]domain.CaregiverLink, error),
) {
	ctx := r.Context()

	subject, ok := httpx.SubjectFromContext(ctx)
	if !ok {
		httpx.WriteUnauthorized(w, httpx.MsgUnauthorized)
		return
	}

	links, err := fetch(ctx, subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := carelinksdk.ListLinksResponse{Links: make([]carelinksdk.CaregiverLink, 0, len(links))}
	for _, l := range links {
		out.Links = append(out.Links, toCaregiverLink(l))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

func toCaregiverLink(l domain.CaregiverLink) carelinksdk.CaregiverLink {
	return carelinksdk.CaregiverLink{
		LinkID:      l.ID,
		PatientID:   l.PatientID,
		CaregiverID: l.CaregiverID,
		CreatedAt:   l.CreatedAt.UTC(),
	}
}
