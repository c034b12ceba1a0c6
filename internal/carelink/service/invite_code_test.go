package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glucocare/carelink/internal/carelink/domain"
	"github.com/glucocare/carelink/internal/carelink/store"
	"github.com/glucocare/carelink/internal/carelink/store/drivers/sqlite"
	"github.com/glucocare/carelink/pkg/idx"
	"github.com/glucocare/carelink/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

// scriptedRandom replays the characters of the given codes so tests control
// every candidate drawn.
type scriptedRandom struct {
	mu    sync.Mutex
	ints  []int
	calls int
}

func scripted(codes ...string) *scriptedRandom {
	r := &scriptedRandom{}
	for _, code := range codes {
		for _, ch := range strings.TrimPrefix(code, domain.InviteCodePrefix) {
			r.ints = append(r.ints, strings.IndexRune(domain.InviteCodeAlphabet, ch))
		}
	}
	return r
}

func (r *scriptedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v
}

type staticIdentity map[string]string

func (s staticIdentity) ResolveIdentity(_ context.Context, credential string) (string, error) {
	if id, ok := s[credential]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

var testIdentity = staticIdentity{
	"patient-token":   "patient-1",
	"patient2-token":  "patient-2",
	"caregiver-token": "caregiver-1",
	"blank-token":     "",
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestService(t *testing.T, st store.Store, r RandomSource) *InviteCodeService {
	t.Helper()

	return &InviteCodeService{
		Store:    st,
		Identity: testIdentity,
		Random:   r,
		Now:      func() time.Time { return fixedNow },
	}
}

func seedCode(t *testing.T, st store.Store, patientID, code string, createdAt time.Time) domain.InviteCode {
	t.Helper()

	saved, err := st.InviteCodes().CreateInviteCode(context.Background(), domain.InviteCode{
		ID:        idx.New().String(),
		PatientID: patientID,
		Code:      code,
		ExpiresAt: domain.InviteCodeExpiry(createdAt),
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return saved
}

func countCodes(t *testing.T, st store.Store, patientID string) int {
	t.Helper()

	codes, err := st.InviteCodes().ListInviteCodesByPatient(context.Background(), patientID)
	require.NoError(t, err)
	return len(codes)
}

// faultyCodes lets tests inject failures or hide existing rows from the
// existence check.
type faultyCodes struct {
	store.InviteCodes

	existsErr  error
	createErr  error
	hideExists bool
}

func (f *faultyCodes) CodeExists(ctx context.Context, code string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.hideExists {
		return false, nil
	}
	return f.InviteCodes.CodeExists(ctx, code)
}

func (f *faultyCodes) CreateInviteCode(ctx context.Context, c domain.InviteCode) (domain.InviteCode, error) {
	if f.createErr != nil {
		return domain.InviteCode{}, f.createErr
	}
	return f.InviteCodes.CreateInviteCode(ctx, c)
}

type wrappedStore struct {
	store.Store
	codes store.InviteCodes
}

func (w *wrappedStore) InviteCodes() store.InviteCodes { return w.codes }

func TestNewCandidateCode(t *testing.T) {
	require.Equal(t, "PAT-ABC123", NewCandidateCode(scripted("PAT-ABC123")))
	require.Equal(t, "PAT-Z9Z9Z9", NewCandidateCode(scripted("PAT-Z9Z9Z9")))

	for range 200 {
		require.True(t, domain.ValidInviteCodeFormat(NewCandidateCode(DefaultRandom)))
	}
}

func TestGenerateIssuesCode(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestService(t, st, scripted("PAT-ABC123"))

	code, err := svc.Generate(ctx, "patient-token")
	require.NoError(t, err)
	require.Equal(t, "PAT-ABC123", code.Code)
	require.Equal(t, "patient-1", code.PatientID)
	require.False(t, code.Used)
	require.True(t, code.CreatedAt.Equal(fixedNow))
	require.True(t, code.ExpiresAt.Equal(time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)))
	require.True(t, code.IsRedeemable(fixedNow))

	exists, err := st.InviteCodes().CodeExists(ctx, "PAT-ABC123")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestGenerateUsesCalendarDays(t *testing.T) {
	// Thirty calendar days across the end of February.
	start := time.Date(2024, 2, 10, 8, 30, 0, 0, time.UTC)

	svc := newTestService(t, newTestStore(t), scripted("PAT-FEB001"))
	svc.Now = func() time.Time { return start }

	code, err := svc.Generate(context.Background(), "patient-token")
	require.NoError(t, err)
	require.True(t, code.ExpiresAt.Equal(time.Date(2024, 3, 11, 8, 30, 0, 0, time.UTC)))
}

func TestGenerateWithDefaultsProducesDistinctCodes(t *testing.T) {
	ctx := context.Background()
	svc := &InviteCodeService{Store: newTestStore(t), Identity: testIdentity}

	first, err := svc.Generate(ctx, "patient-token")
	require.NoError(t, err)
	second, err := svc.Generate(ctx, "patient-token")
	require.NoError(t, err)

	require.True(t, domain.ValidInviteCodeFormat(first.Code))
	require.True(t, domain.ValidInviteCodeFormat(second.Code))
	require.NotEqual(t, first.Code, second.Code)
	require.WithinDuration(t, time.Now().AddDate(0, 0, 30), first.ExpiresAt, time.Minute)
}

func TestGenerateRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name       string
		credential string
		wantErr    error
	}{
		{name: "missing", credential: "", wantErr: ErrMissingCredential},
		{name: "invalid", credential: "forged-token", wantErr: ErrUnauthenticated},
		{name: "empty identity", credential: "blank-token", wantErr: ErrUnauthenticated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newTestStore(t)
			random := scripted("PAT-ABC123")
			svc := newTestService(t, st, random)

			_, err := svc.Generate(ctx, tc.credential)
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, ErrUnauthenticated)

			// No candidate drawn, nothing persisted.
			require.Zero(t, random.calls)
			exists, err := st.InviteCodes().CodeExists(ctx, "PAT-ABC123")
			require.NoError(t, err)
			require.False(t, exists)
		})
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedCode(t, st, "patient-2", "PAT-TAKEN1", fixedNow)
	seedCode(t, st, "patient-2", "PAT-TAKEN2", fixedNow)

	svc := newTestService(t, st, scripted("PAT-TAKEN1", "PAT-TAKEN2", "PAT-FREE01"))

	code, err := svc.Generate(ctx, "patient-token")
	require.NoError(t, err)
	require.Equal(t, "PAT-FREE01", code.Code)
}

func TestGenerateDoesNotLogCodes(t *testing.T) {
	st := newTestStore(t)
	seedCode(t, st, "patient-2", "PAT-TAKEN1", fixedNow)
	seedCode(t, st, "patient-2", "PAT-RACE01", fixedNow)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := slogx.WithContext(context.Background(), logger)

	codes := &faultyCodes{InviteCodes: st.InviteCodes()}
	svc := newTestService(t, &wrappedStore{Store: st, codes: codes}, scripted("PAT-TAKEN1", "PAT-FREE01"))

	code, err := svc.Generate(ctx, "patient-token")
	require.NoError(t, err)
	require.Equal(t, "PAT-FREE01", code.Code)

	// Unique violation path.
	codes.hideExists = true
	svc.Random = scripted("PAT-RACE01", "PAT-FREE02")
	_, err = svc.Generate(ctx, "patient-token")
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "invite code collision")
	require.Contains(t, out, "invite code insert lost race")
	require.NotContains(t, out, "PAT-")
}

func TestGenerateCollidesWithUsedAndExpiredCodes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	expired := seedCode(t, st, "patient-2", "PAT-OLD001", fixedNow.AddDate(0, -3, 0))
	used := seedCode(t, st, "patient-2", "PAT-USED01", fixedNow)
	require.NoError(t, st.InviteCodes().MarkInviteCodeUsed(ctx, used.ID, "caregiver-9"))
	require.True(t, expired.IsExpired(fixedNow))

	svc := newTestService(t, st, scripted("PAT-OLD001", "PAT-USED01", "PAT-NEW001"))

	code, err := svc.Generate(ctx, "patient-token")
	require.NoError(t, err)
	require.Equal(t, "PAT-NEW001", code.Code)
}

func TestGenerateExhaustsCodeSpace(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	taken := make([]string, 0, MaxGenerateAttempts)
	for i := range MaxGenerateAttempts {
		code := "PAT-FULL0" + string(domain.InviteCodeAlphabet[26+i])
		seedCode(t, st, "patient-2", code, fixedNow)
		taken = append(taken, code)
	}

	// An eleventh, free candidate is scripted but must never be drawn.
	random := scripted(append(taken, "PAT-SPARE1")...)
	svc := newTestService(t, st, random)

	_, err := svc.Generate(ctx, "patient-token")
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	require.Equal(t, MaxGenerateAttempts*domain.InviteCodeRandomLength, random.calls)
	require.Zero(t, countCodes(t, st, "patient-1"))
}

func TestGenerateTreatsUniqueViolationAsCollision(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedCode(t, st, "patient-2", "PAT-RACE01", fixedNow)

	// The existence check misses the row, as if another request inserted it
	// in between; the unique constraint catches it.
	codes := &faultyCodes{InviteCodes: st.InviteCodes(), hideExists: true}
	svc := newTestService(t, &wrappedStore{Store: st, codes: codes}, scripted("PAT-RACE01", "PAT-AFTER1"))

	code, err := svc.Generate(ctx, "patient-token")
	require.NoError(t, err)
	require.Equal(t, "PAT-AFTER1", code.Code)
}

func TestGenerateUniqueViolationsExhaustBudget(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedCode(t, st, "patient-2", "PAT-RACE01", fixedNow)

	script := make([]string, MaxGenerateAttempts)
	for i := range script {
		script[i] = "PAT-RACE01"
	}

	codes := &faultyCodes{InviteCodes: st.InviteCodes(), hideExists: true}
	svc := newTestService(t, &wrappedStore{Store: st, codes: codes}, scripted(script...))

	_, err := svc.Generate(ctx, "patient-token")
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	require.Zero(t, countCodes(t, st, "patient-1"))
}

func TestGenerateStoreOutage(t *testing.T) {
	ctx := context.Background()
	outage := errors.New("disk I/O error")

	t.Run("insert fails", func(t *testing.T) {
		st := newTestStore(t)
		codes := &faultyCodes{InviteCodes: st.InviteCodes(), createErr: outage}
		svc := newTestService(t, &wrappedStore{Store: st, codes: codes}, scripted("PAT-ABC123", "PAT-ABC124"))

		_, err := svc.Generate(ctx, "patient-token")
		require.ErrorIs(t, err, ErrStore)
		require.ErrorIs(t, err, outage)
		require.NotErrorIs(t, err, ErrCodeSpaceExhausted)
		require.Zero(t, countCodes(t, st, "patient-1"))
	})

	t.Run("existence check fails", func(t *testing.T) {
		st := newTestStore(t)
		codes := &faultyCodes{InviteCodes: st.InviteCodes(), existsErr: outage}
		random := scripted("PAT-ABC123", "PAT-ABC124")
		svc := newTestService(t, &wrappedStore{Store: st, codes: codes}, random)

		_, err := svc.Generate(ctx, "patient-token")
		require.ErrorIs(t, err, ErrStore)
		// Not retried: exactly one candidate drawn.
		require.Equal(t, domain.InviteCodeRandomLength, random.calls)
		require.Zero(t, countCodes(t, st, "patient-1"))
	})

	t.Run("closed database", func(t *testing.T) {
		st := newTestStore(t)
		require.NoError(t, st.Close())

		svc := newTestService(t, st, scripted("PAT-ABC123"))
		_, err := svc.Generate(ctx, "patient-token")
		require.ErrorIs(t, err, ErrStore)
	})
}

// barrierCodes holds every caller's first existence check until all callers
// have made one, so they all pass the check before anyone inserts.
type barrierCodes struct {
	store.InviteCodes

	once    sync.Once
	barrier *sync.WaitGroup
}

func (b *barrierCodes) CodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := b.InviteCodes.CodeExists(ctx, code)
	b.once.Do(func() {
		b.barrier.Done()
		b.barrier.Wait()
	})
	return exists, err
}

func TestGenerateConcurrentSameCandidate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	var barrier sync.WaitGroup
	barrier.Add(2)

	newRacer := func(fallback string) *InviteCodeService {
		codes := &barrierCodes{InviteCodes: st.InviteCodes(), barrier: &barrier}
		return newTestService(t, &wrappedStore{Store: st, codes: codes}, scripted("PAT-SAME01", fallback))
	}

	racers := []struct {
		svc        *InviteCodeService
		credential string
	}{
		{svc: newRacer("PAT-ALTA01"), credential: "patient-token"},
		{svc: newRacer("PAT-ALTB01"), credential: "patient2-token"},
	}

	results := make([]domain.InviteCode, len(racers))
	errs := make([]error, len(racers))

	var wg sync.WaitGroup
	for i, r := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = r.svc.Generate(ctx, r.credential)
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NotEqual(t, results[0].Code, results[1].Code)
	require.Contains(t, []string{results[0].Code, results[1].Code}, "PAT-SAME01")
	require.Equal(t, 1, countCodes(t, st, "patient-1"))
	require.Equal(t, 1, countCodes(t, st, "patient-2"))
}
