package sqlite

import (
	"context"

	"github.com/glucocare/carelink/internal/carelink/domain"
	"github.com/glucocare/carelink/internal/carelink/store"
	"github.com/glucocare/carelink/internal/carelink/store/drivers/sqlite/gen"
)

type inviteCodesRepo struct {
	q *gen.Queries
}

func (r *inviteCodesRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	found, err := r.q.CodeExists(ctx, code)
	if err != nil {
		return false, err
	}
	return found != 0, nil
}

// CreateInviteCode inserts the record and reads it back so callers see the
// values exactly as the database stored them.
func (r *inviteCodesRepo) CreateInviteCode(
	ctx context.Context,
	c domain.InviteCode,
) (domain.InviteCode, error) {
	err := r.q.CreateInviteCode(ctx, gen.CreateInviteCodeParams{
		ID:        c.ID,
		PatientID: c.PatientID,
		Code:      c.Code,
		ExpiresAt: utc(c.ExpiresAt),
		CreatedAt: utc(c.CreatedAt),
	})
	if err != nil {
		return domain.InviteCode{}, mapConstraint(err)
	}

	row, err := r.q.GetInviteCodeByID(ctx, c.ID)
	if err != nil {
		return domain.InviteCode{}, mapNotFound(err)
	}
	return mapInviteCode(row), nil
}

func (r *inviteCodesRepo) GetInviteCodeByCode(ctx context.Context, code string) (domain.InviteCode, error) {
	row, err := r.q.GetInviteCodeByCode(ctx, code)
	if err != nil {
		return domain.InviteCode{}, mapNotFound(err)
	}
	return mapInviteCode(row), nil
}

func (r *inviteCodesRepo) ListInviteCodesByPatient(
	ctx context.Context,
	patientID string,
) ([]domain.InviteCode, error) {
	rows, err := r.q.ListInviteCodesByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	codes := make([]domain.InviteCode, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, mapInviteCode(row))
	}
	return codes, nil
}

func (r *inviteCodesRepo) MarkInviteCodeUsed(ctx context.Context, id string, usedBy string) error {
	n, err := r.q.MarkInviteCodeUsed(ctx, gen.MarkInviteCodeUsedParams{
		UsedBy: mapStringNull(usedBy),
		ID:     id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
