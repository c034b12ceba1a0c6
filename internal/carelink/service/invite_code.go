package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glucocare/carelink/internal/carelink/domain"
	"github.com/glucocare/carelink/internal/carelink/identity"
	"github.com/glucocare/carelink/internal/carelink/store"
	"github.com/glucocare/carelink/pkg/idx"
	"github.com/glucocare/carelink/pkg/slogx"
)

// MaxGenerateAttempts bounds the collision retry loop of Generate.
const MaxGenerateAttempts = 10

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrMissingCredential  = fmt.Errorf("%w: missing credential", ErrUnauthenticated)
	ErrBadRequest         = errors.New("bad request")
	ErrCodeSpaceExhausted = errors.New("failed to generate a unique invite code")
	ErrStore              = errors.New("invite code store failure")

	ErrInviteCodeNotFound = errors.New("invite code not found")
	ErrInviteCodeInvalid  = errors.New("invite code has expired")
	ErrInviteCodeUsed     = errors.New("invite code has already been used")
	ErrSelfRedemption     = errors.New("cannot redeem your own invite code")
	ErrAlreadyLinked      = errors.New("caregiver is already linked to this patient")
)

// InviteCodeService issues and redeems patient invite codes.
type InviteCodeService struct {
	Store    store.Store
	Identity identity.Provider

	// Random defaults to DefaultRandom.
	Random RandomSource

	// Now defaults to time.Now.
	Now func() time.Time
}

// InviteCodeStatus pairs a code with its redeemability at listing time.
type InviteCodeStatus struct {
	domain.InviteCode
	Redeemable bool
}

func (s *InviteCodeService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *InviteCodeService) random() RandomSource {
	if s.Random != nil {
		return s.Random
	}
	return DefaultRandom
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", ErrStore, err)
}

// Generate resolves the caller behind credential and persists a fresh invite
// code for them. Candidates that already exist, or that lose an insert race
// to the store's uniqueness constraint, are redrawn until MaxGenerateAttempts
// is spent. Nothing is persisted unless a code is returned.
func (s *InviteCodeService) Generate(ctx context.Context, credential string) (domain.InviteCode, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve the caller. No code is drawn for unauthenticated calls.
	if credential == "" {
		return domain.InviteCode{}, ErrMissingCredential
	}

	patientID, err := s.Identity.ResolveIdentity(ctx, credential)
	if err != nil {
		log.Warn("invite code requested with invalid credential", slog.Any("error", err))
		return domain.InviteCode{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if patientID == "" {
		return domain.InviteCode{}, ErrUnauthenticated
	}

	codes := s.Store.InviteCodes()

	for attempt := 1; attempt <= MaxGenerateAttempts; attempt++ {
		// 2. Draw a candidate and skip it if any record already holds it.
		candidate := NewCandidateCode(s.random())

		exists, err := codes.CodeExists(ctx, candidate)
		if err != nil {
			log.Error("failed to check invite code existence", slog.Any("error", err))
			return domain.InviteCode{}, storeError(err)
		}
		if exists {
			log.Debug("invite code collision", slog.Int("attempt", attempt))
			continue
		}

		// 3. Persist. The unique constraint has the final word on collisions.
		now := s.now()
		record := domain.InviteCode{
			ID:        idx.NewAt(now).String(),
			PatientID: patientID,
			Code:      candidate,
			ExpiresAt: domain.InviteCodeExpiry(now),
			CreatedAt: now,
		}

		saved, err := codes.CreateInviteCode(ctx, record)
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Debug("invite code insert lost race",
				slog.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			log.Error("failed to persist invite code", slog.Any("error", err))
			return domain.InviteCode{}, storeError(err)
		}

		log.Info("invite code issued",
			slog.String("invite_code_id", saved.ID),
			slog.String("patient_id", patientID),
			slog.Int("attempts", attempt),
			slog.Time("expires_at", saved.ExpiresAt),
		)
		return saved, nil
	}

	log.Error("invite code space exhausted",
		slog.String("patient_id", patientID),
		slog.Int("attempts", MaxGenerateAttempts),
	)
	return domain.InviteCode{}, ErrCodeSpaceExhausted
}

// NormalizeInviteCode uppercases and trims user-entered codes.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Redeem consumes a patient's invite code and links caregiverID to that
// patient.
func (s *InviteCodeService) Redeem(ctx context.Context, caregiverID, code string) (domain.CaregiverLink, error) {
	log := slogx.FromContext(ctx)

	if caregiverID == "" {
		return domain.CaregiverLink{}, ErrUnauthenticated
	}

	// 1. Validate the shape before touching the store.
	code = NormalizeInviteCode(code)
	if !domain.ValidInviteCodeFormat(code) {
		return domain.CaregiverLink{}, fmt.Errorf("%w: invite code must look like PAT-XXXXXX", ErrBadRequest)
	}

	// 2. Look up the code regardless of status.
	invite, err := s.Store.InviteCodes().GetInviteCodeByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("redemption attempted with unknown code", slog.String("caregiver_id", caregiverID))
			return domain.CaregiverLink{}, ErrInviteCodeNotFound
		}
		log.Error("failed to fetch invite code", slog.Any("error", err))
		return domain.CaregiverLink{}, storeError(err)
	}

	// 3. Apply the validity predicate.
	now := s.now()
	if !invite.IsRedeemable(now) {
		if invite.Used {
			log.Warn("redemption attempted with used code",
				slog.String("invite_code_id", invite.ID),
				slog.String("used_by", invite.UsedBy),
			)
			return domain.CaregiverLink{}, ErrInviteCodeUsed
		}
		log.Warn("redemption attempted with expired code",
			slog.String("invite_code_id", invite.ID),
			slog.Time("expires_at", invite.ExpiresAt),
		)
		return domain.CaregiverLink{}, ErrInviteCodeInvalid
	}

	// 4. A patient cannot be their own caregiver.
	if invite.PatientID == caregiverID {
		return domain.CaregiverLink{}, ErrSelfRedemption
	}

	// 5. Reject duplicate links early so the code is not burned.
	_, err = s.Store.CaregiverLinks().GetCaregiverLink(ctx, invite.PatientID, caregiverID)
	if err == nil {
		return domain.CaregiverLink{}, ErrAlreadyLinked
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to fetch caregiver link", slog.Any("error", err))
		return domain.CaregiverLink{}, storeError(err)
	}

	link := domain.CaregiverLink{
		ID:           idx.NewAt(now).String(),
		PatientID:    invite.PatientID,
		CaregiverID:  caregiverID,
		InviteCodeID: invite.ID,
		CreatedAt:    now,
	}

	// 6. Mark used and link atomically. The conditional update settles
	// concurrent redeemers of the same code.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.InviteCodes().MarkInviteCodeUsed(ctx, invite.ID, caregiverID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteCodeUsed
			}
			return storeError(err)
		}

		if err := tx.CaregiverLinks().CreateCaregiverLink(ctx, link); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyLinked
			}
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStore) {
			log.Error("failed to redeem invite code",
				slog.String("invite_code_id", invite.ID),
				slog.Any("error", err),
			)
		}
		return domain.CaregiverLink{}, err
	}

	log.Info("invite code redeemed",
		slog.String("invite_code_id", invite.ID),
		slog.String("patient_id", invite.PatientID),
		slog.String("caregiver_id", caregiverID),
	)
	return link, nil
}

// ListInviteCodes returns the patient's codes, newest first.
func (s *InviteCodeService) ListInviteCodes(ctx context.Context, patientID string) ([]InviteCodeStatus, error) {
	if patientID == "" {
		return nil, ErrUnauthenticated
	}

	codes, err := s.Store.InviteCodes().ListInviteCodesByPatient(ctx, patientID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list invite codes", slog.Any("error", err))
		return nil, storeError(err)
	}

	now := s.now()
	out := make([]InviteCodeStatus, 0, len(codes))
	for _, c := range codes {
		out = append(out, InviteCodeStatus{InviteCode: c, Redeemable: c.IsRedeemable(now)})
	}
	return out, nil
}

// ListCaregivers returns the links where patientID is the patient.
func (s *InviteCodeService) ListCaregivers(ctx context.Context, patientID string) ([]domain.CaregiverLink, error) {
	if patientID == "" {
		return nil, ErrUnauthenticated
	}

	links, err := s.Store.CaregiverLinks().ListCaregiversByPatient(ctx, patientID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list caregivers", slog.Any("error", err))
		return nil, storeError(err)
	}
	return links, nil
}

// ListPatients returns the links where caregiverID is the caregiver.
func (s *InviteCodeService) ListPatients(ctx context.Context, caregiverID string) ([]domain.CaregiverLink, error) {
	if caregiverID == "" {
		return nil, ErrUnauthenticated
	}

	links, err := s.Store.CaregiverLinks().ListPatientsByCaregiver(ctx, caregiverID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list patients", slog.Any("error", err))
		return nil, storeError(err)
	}
	return links, nil
}
