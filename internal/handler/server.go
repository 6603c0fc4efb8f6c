// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, participant.go, etc.) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error)
	Confirm(ctx context.Context, id uuid.UUID) (service.ConfirmTripResult, error)
}

// ParticipantServicer defines the participant operations.
type ParticipantServicer interface {
	Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Participant, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	GetOnTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error)
	Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	ConfirmOnTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error)
}

// ActivityServicer defines the activity operations.
type ActivityServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (domain.Activity, error)
	ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.DayBucket, error)
}

// LinkServicer defines the link operations.
type LinkServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, title, url string) (domain.Link, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error)
}

// ExportServicer renders a trip in an external format.
type ExportServicer interface {
	Calendar(ctx context.Context, tripID uuid.UUID) ([]byte, error)
}

// Services bundles every servicer the Server dispatches to.
// Tests set only the fields they exercise.
type Services struct {
	Trips        TripServicer
	Participants ParticipantServicer
	Activities   ActivityServicer
	Links        LinkServicer
	Export       ExportServicer
}

// Config holds the non-service settings of the HTTP layer.
type Config struct {
	// WebBaseURL is where confirmation links land after the API has recorded them.
	WebBaseURL string
	// OpenAPI is served verbatim at GET /openapi.yaml when non-empty.
	OpenAPI []byte
	Logger  *slog.Logger
}

// Server holds the dependencies of every handler.
type Server struct {
	svc      Services
	cfg      Config
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, cfg Config) *Server {
	cfg.WebBaseURL = strings.TrimRight(cfg.WebBaseURL, "/")
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{svc: svc, cfg: cfg, validate: newValidator(), log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, Config{})
}

// Routes returns a chi router with every API endpoint registered.
// Mount it in main.go under the middleware chain.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Post("/trips", s.CreateTrip)
	r.Route("/trips/{tripId}", func(r chi.Router) {
		r.Get("/", s.GetTrip)
		r.Put("/", s.UpdateTrip)
		r.Get("/confirm", s.ConfirmTrip)
		r.Get("/confirm/{participantId}", s.ConfirmParticipant)

		r.Post("/invites", s.CreateInvite)
		r.Get("/participants", s.ListParticipants)
		r.Get("/participants/{participantId}", s.GetParticipant)

		r.Post("/activities", s.CreateActivity)
		r.Get("/activities", s.ListActivities)

		r.Post("/links", s.CreateLink)
		r.Get("/links", s.ListLinks)

		r.Get("/calendar.ics", s.ExportCalendar)
	})

	r.Get("/participants/{participantId}", s.GetParticipant)
	r.Get("/participants/{participantId}/confirm", s.ConfirmParticipant)

	return r
}

// webURL joins path onto the web app's base URL.
func (s *Server) webURL(path string) string {
	return s.cfg.WebBaseURL + path
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
