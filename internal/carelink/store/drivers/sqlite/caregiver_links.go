package sqlite

import (
	"context"

	"github.com/glucocare/carelink/internal/carelink/domain"
	"github.com/glucocare/carelink/internal/carelink/store/drivers/sqlite/gen"
)

type caregiverLinksRepo struct {
	q *gen.Queries
}

func (r *caregiverLinksRepo) CreateCaregiverLink(ctx context.Context, l domain.CaregiverLink) error {
	err := r.q.CreateCaregiverLink(ctx, gen.CreateCaregiverLinkParams{
		ID:           l.ID,
		PatientID:    l.PatientID,
		CaregiverID:  l.CaregiverID,
		InviteCodeID: l.InviteCodeID,
		CreatedAt:    utc(l.CreatedAt),
	})
	return mapConstraint(err)
}

func (r *caregiverLinksRepo) GetCaregiverLink(
	ctx context.Context,
	patientID, caregiverID string,
) (domain.CaregiverLink, error) {
	row, err := r.q.GetCaregiverLink(ctx, gen.GetCaregiverLinkParams{
		PatientID:   patientID,
		CaregiverID: caregiverID,
	})
	if err != nil {
		return domain.CaregiverLink{}, mapNotFound(err)
	}
	return mapCaregiverLink(row), nil
}

func (r *caregiverLinksRepo) ListCaregiversByPatient(
	ctx context.Context,
	patientID string,
) ([]domain.CaregiverLink, error) {
	rows, err := r.q.ListCaregiversByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return mapCaregiverLinks(rows), nil
}

func (r *caregiverLinksRepo) ListPatientsByCaregiver(
	ctx context.Context,
	caregiverID string,
) ([]domain.CaregiverLink, error) {
	rows, err := r.q.ListPatientsByCaregiver(ctx, caregiverID)
	if err != nil {
		return nil, err
	}
	return mapCaregiverLinks(rows), nil
}

func mapCaregiverLinks(rows []gen.CaregiverLink) []domain.CaregiverLink {
	links := make([]domain.CaregiverLink, 0, len(rows))
	for _, row := range rows {
		links = append(links, mapCaregiverLink(row))
	}
	return links
}
