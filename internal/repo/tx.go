package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/plannr/trip-planner/internal/domain"
)

// Postgres SQLSTATE codes the repos translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// beginner is satisfied by *pgxpool.Pool and pgx.Tx (where Begin opens a savepoint).
type beginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repos groups every repository bound to the same connection or transaction.
type Repos struct {
	Trips        TripRepo
	Participants ParticipantRepo
	Activities   ActivityRepo
	Links        LinkRepo
}

// NewRepos builds all repositories over a single db handle.
func NewRepos(db db) Repos {
	return Repos{
		Trips:        NewTripRepo(db),
		Participants: NewParticipantRepo(db),
		Activities:   NewActivityRepo(db),
		Links:        NewLinkRepo(db),
	}
}

// TxRunner runs a unit of work inside one database transaction.
type TxRunner interface {
	// WithTx calls fn with repos bound to a fresh transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithTx(ctx context.Context, fn func(r Repos) error) error
}

type pgTxRunner struct {
	db beginner
}

// NewTxRunner constructs a TxRunner. In production pass *pgxpool.Pool; in tests
// a pgx.Tx works too and nests the unit of work in a savepoint.
func NewTxRunner(db beginner) TxRunner {
	return &pgTxRunner{db: db}
}

func (r *pgTxRunner) WithTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TxRunner.WithTx: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxRunner.WithTx: commit: %w", err)
	}
	return nil
}

// mapWriteError translates constraint violations into domain sentinels so the
// service layer never has to inspect Postgres error codes.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)
	}
	return err
}
