package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/glucocare/carelink/internal/carelink/domain"
	"github.com/glucocare/carelink/internal/carelink/store"
	"github.com/glucocare/carelink/internal/carelink/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the database. Foreign keys are enforced on every pooled
// connection through the DSN.
func NewStore(dsn string) (*Store, error) {
	dsn = withPragma(dsn, "foreign_keys(1)")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every pooled connection to ":memory:" is its own empty database, so
	// pin in-memory stores to a single connection.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

// withPragma appends a _pragma query parameter unless the DSN already sets it.
func withPragma(dsn, pragma string) string {
	name, _, _ := strings.Cut(pragma, "(")
	if strings.Contains(dsn, "_pragma="+name+"(") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) InviteCodes() store.InviteCodes       { return &inviteCodesRepo{q: s.q} }
func (s *Store) CaregiverLinks() store.CaregiverLinks { return &caregiverLinksRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns sqlite UNIQUE / PRIMARY KEY violations into
// store.ErrAlreadyExists and leaves every other error untouched.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}

	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}

	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return store.ErrAlreadyExists
	}

	// Some builds only report the primary result code.
	if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}

	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// utc normalises times before they are written so every stored value shares
// one location and format.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func mapInviteCode(row gen.InviteCode) domain.InviteCode {
	return domain.InviteCode{
		ID:        row.ID,
		PatientID: row.PatientID,
		Code:      row.Code,
		ExpiresAt: row.ExpiresAt.UTC(),
		Used:      row.Used,
		UsedBy:    mapNullString(row.UsedBy),
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func mapCaregiverLink(row gen.CaregiverLink) domain.CaregiverLink {
	return domain.CaregiverLink{
		ID:           row.ID,
		PatientID:    row.PatientID,
		CaregiverID:  row.CaregiverID,
		InviteCodeID: row.InviteCodeID,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}
