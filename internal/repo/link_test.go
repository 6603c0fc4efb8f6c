package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannr/trip-planner/internal/domain"
)

func TestLinkRepo_CreateAndList(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	trip := createTrip(t, r)

	first, err := r.Links.Create(ctx, domain.Link{TripID: trip.ID, Title: "Hotel booking", URL: "https://hotel.example.com/res/1"})
	require.NoError(t, err)
	_, err = r.Links.Create(ctx, domain.Link{TripID: trip.ID, Title: "Flight", URL: "https://air.example.com/x"})
	require.NoError(t, err)

	got, err := r.Links.ListByTripID(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, "https://hotel.example.com/res/1", got[0].URL)
}

func TestLinkRepo_Create_UnknownTrip(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.Links.Create(context.Background(), domain.Link{TripID: uuid.New(), Title: "Hotel", URL: "https://x.example.com"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
