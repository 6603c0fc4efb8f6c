package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/repo"
)

func TestTxRunner_CommitsOnSuccess(t *testing.T) {
	tx := newTestTx(t)
	runner := repo.NewTxRunner(tx)
	ctx := context.Background()

	var created domain.Trip
	err := runner.WithTx(ctx, func(r repo.Repos) error {
		var err error
		created, err = r.Trips.Create(ctx, tripFixture())
		return err
	})
	require.NoError(t, err)

	_, err = repo.NewTripRepo(tx).GetByID(ctx, created.ID)
	assert.NoError(t, err, "trip should be visible after the unit of work commits")
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	tx := newTestTx(t)
	runner := repo.NewTxRunner(tx)
	ctx := context.Background()
	boom := errors.New("boom")

	var created domain.Trip
	err := runner.WithTx(ctx, func(r repo.Repos) error {
		var err error
		created, err = r.Trips.Create(ctx, tripFixture())
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.NewTripRepo(tx).GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "trip should be gone after rollback")
}
