package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/metrics"
	"stealthcompany.com/opsboard/internal/store"
)

// GetDraftHandler returns the pending review of a ticket
func (s *Server) GetDraftHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := s.store.Draft(mux.Vars(r)["id"])
	if !ok {
		ticketNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ToggleDocumentHandler checks or unchecks a document in the draft
func (s *Server) ToggleDocumentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req DocumentCheckRequest
	if err := decodeBody(r, &req, false); err != nil {
		invalidJSON(w, r, err)
		return
	}

	d, ok := s.store.ToggleDocument(vars["id"], vars["doc"], req.Checked)
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// EditFieldHandler stages a corrected extracted value
func (s *Server) EditFieldHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req FieldEditRequest
	if err := decodeBody(r, &req, false); err != nil {
		invalidJSON(w, r, err)
		return
	}

	d, ok := s.store.EditField(vars["id"], vars["field"], req.Value)
	if !ok {
		writeError(w, http.StatusNotFound, "field not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// MarkStageHandler ticks or clears a stage completion box
func (s *Server) MarkStageHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	_, st, err := resolveStage(vars["stage"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req StageCompleteRequest
	if err := decodeBody(r, &req, false); err != nil {
		invalidJSON(w, r, err)
		return
	}

	d, ok := s.store.MarkStageComplete(vars["id"], st.ID, req.Complete)
	if !ok {
		ticketNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// SaveDraftHandler commits the draft to the store and the mirror
func (s *Server) SaveDraftHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	res, err := s.store.SaveDraft(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrTicketNotFound) {
			ticketNotFound(w)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.RecordDraft("saved")
	switch {
	case res.Mirrored:
		metrics.RecordDraft("mirrored")
	case res.MirrorError != "":
		metrics.RecordDraft("mirror_failed")
	}

	log.Info().
		Str("ticket", id).
		Str("revision", res.Revision).
		Int("documents", res.DocumentsSaved).
		Int("fields", res.FieldsSaved).
		Int("stages", res.StagesSaved).
		Bool("mirrored", res.Mirrored).
		Msg("Draft saved")
	writeJSON(w, http.StatusOK, res)
}

// DiscardDraftHandler drops pending edits. Discarding nothing is not an
// error.
func (s *Server) DiscardDraftHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.Ticket(id); !ok {
		ticketNotFound(w)
		return
	}

	if s.store.DiscardDraft(id) {
		metrics.RecordDraft("discarded")
		log.Info().
			Str("ticket", id).
			Msg("Draft discarded")
	}
	w.WriteHeader(http.StatusNoContent)
}
