package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/handler"
)

func TestExportCalendar(t *testing.T) {
	tripID := uuid.New()
	doc := []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	h := newHTTPHandler(handler.Services{Export: &mockExportServicer{
		calendar: func(_ context.Context, id uuid.UUID) ([]byte, error) {
			assert.Equal(t, tripID, id)
			return doc, nil
		},
	}})

	rec := serve(h, http.MethodGet, "/trips/"+tripID.String()+"/calendar.ics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="trip-`+tripID.String()+`.ics"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, doc, rec.Body.Bytes())
}

func TestExportCalendar_404(t *testing.T) {
	h := newHTTPHandler(handler.Services{Export: &mockExportServicer{
		calendar: func(_ context.Context, _ uuid.UUID) ([]byte, error) {
			return nil, domain.ErrNotFound
		},
	}})

	rec := serve(h, http.MethodGet, "/trips/"+uuid.NewString()+"/calendar.ics", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
