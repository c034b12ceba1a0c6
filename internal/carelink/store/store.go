package store

import (
	"context"
	"errors"

	"github.com/glucocare/carelink/internal/carelink/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists is returned when a write violates a uniqueness
	// constraint (duplicate invite code, duplicate caregiver link).
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so transactional code cannot open nested transactions.
type Store interface {
	InviteCodes() InviteCodes
	CaregiverLinks() CaregiverLinks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// InviteCodes is the code store. The backing table MUST enforce uniqueness of
// the code column; CreateInviteCode reports a violation as ErrAlreadyExists.
// That constraint, not CodeExists, is what keeps codes unique under
// concurrent issuance.
type InviteCodes interface {
	// CodeExists reports whether any record (used or not, expired or not)
	// carries this exact code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// CreateInviteCode inserts a new record and returns the row as persisted.
	CreateInviteCode(ctx context.Context, c domain.InviteCode) (domain.InviteCode, error)

	// GetInviteCodeByCode returns a record regardless of status.
	GetInviteCodeByCode(ctx context.Context, code string) (domain.InviteCode, error)

	// ListInviteCodesByPatient returns a patient's codes, newest first.
	ListInviteCodesByPatient(ctx context.Context, patientID string) ([]domain.InviteCode, error)

	// MarkInviteCodeUsed sets used=1 and used_by only while the code is still
	// unused. It returns ErrNotFound when no unused row matched.
	MarkInviteCodeUsed(ctx context.Context, id string, usedBy string) error
}

type CaregiverLinks interface {
	// CreateCaregiverLink inserts a link; a duplicate patient/caregiver pair
	// returns ErrAlreadyExists.
	CreateCaregiverLink(ctx context.Context, l domain.CaregiverLink) error

	// GetCaregiverLink fetches the link for a patient/caregiver pair.
	GetCaregiverLink(ctx context.Context, patientID, caregiverID string) (domain.CaregiverLink, error)

	ListCaregiversByPatient(ctx context.Context, patientID string) ([]domain.CaregiverLink, error)
	ListPatientsByCaregiver(ctx context.Context, caregiverID string) ([]domain.CaregiverLink, error)
}
