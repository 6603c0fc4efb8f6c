package handler

import (
	"fmt"
	"net/http"
)

// ExportCalendar handles GET /trips/{tripId}/calendar.ics.
// The document is served as an attachment so browsers offer to import it.
func (s *Server) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	body, err := s.svc.Export.Calendar(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s.ics"`, tripID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
