package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/handler"
	"github.com/plannr/trip-planner/internal/service"
)

// ---- mock servicers --------------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create  func(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update  func(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error)
	confirm func(ctx context.Context, id uuid.UUID) (service.ConfirmTripResult, error)
}

func (m *mockTripServicer) Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error) {
	return m.update(ctx, id, in)
}
func (m *mockTripServicer) Confirm(ctx context.Context, id uuid.UUID) (service.ConfirmTripResult, error) {
	return m.confirm(ctx, id)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockParticipantServicer struct {
	invite        func(ctx context.Context, tripID uuid.UUID, email string) (domain.Participant, error)
	listByTripID  func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	getOnTrip     func(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error)
	confirm       func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	confirmOnTrip func(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error)
}

func (m *mockParticipantServicer) Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Participant, error) {
	return m.invite(ctx, tripID, email)
}
func (m *mockParticipantServicer) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockParticipantServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.getByID(ctx, id)
}
func (m *mockParticipantServicer) GetOnTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	return m.getOnTrip(ctx, tripID, id)
}
func (m *mockParticipantServicer) Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.confirm(ctx, id)
}
func (m *mockParticipantServicer) ConfirmOnTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	return m.confirmOnTrip(ctx, tripID, id)
}

var _ handler.ParticipantServicer = (*mockParticipantServicer)(nil)

type mockActivityServicer struct {
	create    func(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (domain.Activity, error)
	listByDay func(ctx context.Context, tripID uuid.UUID) ([]domain.DayBucket, error)
}

func (m *mockActivityServicer) Create(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (domain.Activity, error) {
	return m.create(ctx, tripID, title, occursAt)
}
func (m *mockActivityServicer) ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.DayBucket, error) {
	return m.listByDay(ctx, tripID)
}

var _ handler.ActivityServicer = (*mockActivityServicer)(nil)

type mockLinkServicer struct {
	create       func(ctx context.Context, tripID uuid.UUID, title, url string) (domain.Link, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error)
}

func (m *mockLinkServicer) Create(ctx context.Context, tripID uuid.UUID, title, url string) (domain.Link, error) {
	return m.create(ctx, tripID, title, url)
}
func (m *mockLinkServicer) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	return m.listByTripID(ctx, tripID)
}

var _ handler.LinkServicer = (*mockLinkServicer)(nil)

type mockExportServicer struct {
	calendar func(ctx context.Context, tripID uuid.UUID) ([]byte, error)
}

func (m *mockExportServicer) Calendar(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	return m.calendar(ctx, tripID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

const webBaseURL = "http://web.test"

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	srv := handler.NewServer(svc, handler.Config{
		WebBaseURL: webBaseURL + "/",
		OpenAPI:    []byte("openapi: 3.0.3\n"),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return srv.Routes()
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Destination: "Florianópolis",
		StartsAt:    time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2030, 6, 5, 18, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}
