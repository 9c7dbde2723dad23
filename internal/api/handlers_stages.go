package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/metrics"
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/stageview"
	"stealthcompany.com/opsboard/internal/store"
	"stealthcompany.com/opsboard/internal/ticket"
)

// resolveStage turns an index, stage id or alias into a canonical stage
func resolveStage(anchor string) (int, pipeline.ValidationStage, error) {
	idx, err := pipeline.Lookup(anchor)
	if err != nil {
		return -1, pipeline.ValidationStage{}, err
	}
	st, err := pipeline.At(idx)
	return idx, st, err
}

// GetStagesHandler returns the validation board of a ticket
func (s *Server) GetStagesHandler(w http.ResponseWriter, r *http.Request) {
	b, ok := s.store.Board(mux.Vars(r)["id"])
	if !ok {
		ticketNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, newStagesResponse(b))
}

// SetCurrentStageHandler opens a stage. Any stage can be opened regardless
// of the others; only the range is checked.
func (s *Server) SetCurrentStageHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req SetCurrentStageRequest
	if err := decodeBody(r, &req, false); err != nil {
		invalidJSON(w, r, err)
		return
	}

	var index int
	switch {
	case req.Index != nil:
		index = *req.Index
	case req.Anchor != "":
		i, _, err := resolveStage(req.Anchor)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		index = i
	default:
		writeError(w, http.StatusBadRequest, "index or anchor is required")
		return
	}

	b, err := s.store.SetCurrentStage(id, index)
	switch {
	case errors.Is(err, store.ErrTicketNotFound):
		ticketNotFound(w)
		return
	case errors.Is(err, pipeline.ErrStageOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.RecordStageTransition(b.Active().ID)
	log.Debug().
		Str("ticket", id).
		Str("stage", b.Active().ID).
		Msg("Stage opened")
	writeJSON(w, http.StatusOK, newStagesResponse(b))
}

// SetStageStatusHandler records the status of one stage
func (s *Server) SetStageStatusHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	_, st, err := resolveStage(vars["stage"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req StageStatusRequest
	if err := decodeBody(r, &req, false); err != nil {
		invalidJSON(w, r, err)
		return
	}
	status, ok := ticket.ParseStageStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, ticket.ErrUnknownStatus.Error())
		return
	}

	if err := s.store.SetStageStatus(id, st.ID, status); err != nil {
		if errors.Is(err, store.ErrTicketNotFound) {
			ticketNotFound(w)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info().
		Str("ticket", id).
		Str("stage", st.ID).
		Str("status", string(status)).
		Msg("Stage status updated")

	b, _ := s.store.Board(id)
	writeJSON(w, http.StatusOK, newStagesResponse(b))
}

// StageViewHandler renders one stage with the ticket's pending draft
// overlaid. The document and field query parameters set the preview focus;
// focus applies to whichever of the two the stage shows.
func (s *Server) StageViewHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	t, ok := s.store.Ticket(id)
	if !ok {
		ticketNotFound(w)
		return
	}

	idx, st, err := resolveStage(vars["stage"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	focus := stageview.Focus{Document: q.Get("document"), Field: q.Get("field")}
	if f := q.Get("focus"); f != "" {
		if focus.Document == "" {
			focus.Document = f
		}
		if focus.Field == "" {
			focus.Field = f
		}
	}

	var live *ticket.SORRecord
	if st.ID == pipeline.SORCheck {
		live = s.sor.Resolve(r.Context(), id)
	}

	draft, _ := s.store.Draft(id)
	v, err := stageview.Render(t, idx, focus, draft, live)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}
