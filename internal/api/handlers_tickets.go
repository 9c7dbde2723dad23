package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/ticket"
)

// HealthHandler reports liveness and the size of the board
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"tickets":   len(s.store.Tickets()),
		"sor":       s.sor.Enabled(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListTicketsHandler returns the filtered and sorted ticket list. The
// status and sortBy query parameters override the stored filters for this
// request only.
func (s *Server) ListTicketsHandler(w http.ResponseWriter, r *http.Request) {
	f := s.store.Filters()
	if v := r.URL.Query().Get("status"); v != "" {
		f.Status = v
	}
	if v := r.URL.Query().Get("sortBy"); v != "" {
		f.SortBy = v
	}

	tickets := insight.Filter(s.store.Tickets(), f.Status)
	insight.Sort(tickets, f.SortBy)

	var selectedID string
	if sel, ok := s.store.Selected(); ok {
		selectedID = sel.ID
	}

	rows := make([]TicketRow, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, newTicketRow(t, selectedID))
	}

	writeJSON(w, http.StatusOK, TicketListResponse{
		Filters: f,
		Count:   len(rows),
		Tickets: rows,
	})
}

// GetTicketHandler returns the detail panel of one ticket
func (s *Server) GetTicketHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	t, ok := s.store.Ticket(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "ticket not found",
			"back":  "/tickets",
		})
		return
	}

	board, _ := s.store.Board(id)
	draft, _ := s.store.Draft(id)

	writeJSON(w, http.StatusOK, TicketDetailResponse{
		Ticket:          t,
		Badge:           insight.Badge(t),
		SLABucket:       insight.SLABucket(t.SLAHours),
		Issues:          insight.Issues(t),
		NextBestAction:  insight.NextBestAction(t),
		Recommendations: insight.DetailRecommendations(t),
		DocumentsPct:    insight.DocumentValidatedPercent(t),
		Board:           board,
		Feedback:        s.store.Feedback(id),
		HasDraft:        !draft.Empty(),
	})
}

// PatchTicketHandler merges a partial update. An unknown id is a no-op.
func (s *Server) PatchTicketHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var p ticket.Patch
	if err := decodeBody(r, &p, false); err != nil {
		invalidJSON(w, r, err)
		return
	}

	if !s.store.UpdateTicket(id, p) {
		log.Debug().
			Str("ticket", id).
			Msg("Update for unknown ticket ignored")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	t, _ := s.store.Ticket(id)
	log.Info().
		Str("ticket", id).
		Str("status", t.Status).
		Msg("Ticket updated")
	writeJSON(w, http.StatusOK, t)
}

// GetSelectionHandler returns the ticket open in the detail panel
func (s *Server) GetSelectionHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := s.store.Selected()
	if !ok {
		writeJSON(w, http.StatusOK, SelectionResponse{})
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{ID: t.ID, Ticket: &t})
}

// PutSelectionHandler opens a ticket. A null id clears the selection.
func (s *Server) PutSelectionHandler(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := decodeBody(r, &req, false); err != nil {
		invalidJSON(w, r, err)
		return
	}

	s.store.Select(req.ID)
	s.GetSelectionHandler(w, r)
}

// ClearSelectionHandler closes the detail panel. Drafts are kept.
func (s *Server) ClearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	s.store.Select(nil)
	w.WriteHeader(http.StatusNoContent)
}

// GetFiltersHandler returns the stored list filters
func (s *Server) GetFiltersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Filters())
}

// PutFiltersHandler sets one or more filters from a flat JSON object
func (s *Server) PutFiltersHandler(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := decodeBody(r, &req, false); err != nil {
		invalidJSON(w, r, err)
		return
	}

	for k, v := range req {
		s.store.SetFilter(k, v)
	}
	writeJSON(w, http.StatusOK, s.store.Filters())
}
