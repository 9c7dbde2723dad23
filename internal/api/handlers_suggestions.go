package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/metrics"
	"stealthcompany.com/opsboard/internal/stageview"
)

// FeedbackHandler records a thumbs up or down on an AI suggestion
func (s *Server) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, sid := vars["id"], vars["sid"]

	var req FeedbackRequest
	if err := decodeBody(r, &req, false); err != nil {
		invalidJSON(w, r, err)
		return
	}
	if req.Vote != "up" && req.Vote != "down" {
		writeError(w, http.StatusBadRequest, "vote must be up or down")
		return
	}

	if !s.store.RecordFeedback(id, sid, req.Vote) {
		writeError(w, http.StatusNotFound, "suggestion not found")
		return
	}

	metrics.RecordSuggestionFeedback(req.Vote)
	log.Info().
		Str("ticket", id).
		Str("suggestion", sid).
		Str("vote", req.Vote).
		Msg("Suggestion feedback recorded")
	writeJSON(w, http.StatusOK, s.store.Feedback(id))
}

// EmailDraftHandler returns the client e-mail drafted from a suggestion
func (s *Server) EmailDraftHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	t, ok := s.store.Ticket(vars["id"])
	if !ok {
		ticketNotFound(w)
		return
	}
	sug, ok := t.Suggestion(vars["sid"])
	if !ok {
		writeError(w, http.StatusNotFound, "suggestion not found")
		return
	}
	writeJSON(w, http.StatusOK, stageview.EmailDraft(t, sug))
}
