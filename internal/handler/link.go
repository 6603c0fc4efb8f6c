package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type createLinkRequest struct {
	Title string `json:"title" validate:"required,min=4"`
	URL   string `json:"url" validate:"required,url"`
}

// Link is the JSON representation of a link.
type Link struct {
	ID    openapi_types.UUID `json:"id"`
	Title string             `json:"title"`
	URL   string             `json:"url"`
}

// CreateLink handles POST /trips/{tripId}/links.
func (s *Server) CreateLink(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var req createLinkRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	l, err := s.svc.Links.Create(r.Context(), tripID, req.Title, req.URL)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]openapi_types.UUID{"link_id": l.ID})
}

// ListLinks handles GET /trips/{tripId}/links.
func (s *Server) ListLinks(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	links, err := s.svc.Links.ListByTripID(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	data := make([]Link, len(links))
	for i, l := range links {
		data[i] = Link{ID: l.ID, Title: l.Title, URL: l.URL}
	}
	writeJSON(w, http.StatusOK, map[string][]Link{"links": data})
}
