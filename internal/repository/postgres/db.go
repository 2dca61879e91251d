package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fleetflow/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// Store is a PostgreSQL implementation of repository.Store.
type Store struct {
	db *sql.DB
	q  Querier
	tx bool
}

// NewStore creates a store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Vehicles() repository.VehicleRepository        { return &VehicleRepository{q: s.q} }
func (s *Store) Drivers() repository.DriverRepository          { return &DriverRepository{q: s.q} }
func (s *Store) Trips() repository.TripRepository              { return &TripRepository{q: s.q} }
func (s *Store) Maintenance() repository.MaintenanceRepository { return &MaintenanceRepository{q: s.q} }
func (s *Store) Expenses() repository.ExpenseRepository        { return &ExpenseRepository{q: s.q} }
func (s *Store) FuelLogs() repository.FuelLogRepository        { return &FuelLogRepository{q: s.q} }
func (s *Store) Users() repository.UserRepository              { return &UserRepository{q: s.q} }

// WithinTx runs fn inside a database transaction. Nested calls reuse the
// outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) (err error) {
	if s.tx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&Store{db: s.db, q: tx, tx: true}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// mapWriteError translates driver errors raised by INSERT and UPDATE.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

// checkAffected returns repository.ErrNotFound when an UPDATE touched no row.
func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// pageClause renders the OFFSET/LIMIT suffix of a list query.
func pageClause(page repository.Page) string {
	clause := fmt.Sprintf(" OFFSET %d", max(page.Skip, 0))
	if page.Limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", page.Limit)
	}
	return clause
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// Ensure Store implements repository.Store.
var _ repository.Store = (*Store)(nil)
