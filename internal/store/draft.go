package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/ticket"
)

// Draft holds an operator's unsaved review of one ticket: human-validation
// checkboxes, edited extracted values and stage completion boxes. Nothing
// in a draft reaches the ticket until SaveDraft.
type Draft struct {
	TicketID      string            `json:"ticketId"`
	Revision      string            `json:"revision"`
	Documents     map[string]bool   `json:"documents"`
	Fields        map[string]string `json:"fields"`
	StageComplete map[string]bool   `json:"stageComplete"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func newDraft(id string) *Draft {
	return &Draft{
		TicketID:      id,
		Revision:      uuid.NewString(),
		Documents:     map[string]bool{},
		Fields:        map[string]string{},
		StageComplete: map[string]bool{},
		UpdatedAt:     time.Now().UTC(),
	}
}

func (d *Draft) clone() Draft {
	c := *d
	c.Documents = make(map[string]bool, len(d.Documents))
	for k, v := range d.Documents {
		c.Documents[k] = v
	}
	c.Fields = make(map[string]string, len(d.Fields))
	for k, v := range d.Fields {
		c.Fields[k] = v
	}
	c.StageComplete = make(map[string]bool, len(d.StageComplete))
	for k, v := range d.StageComplete {
		c.StageComplete[k] = v
	}
	return c
}

func (d *Draft) touch() {
	d.Revision = uuid.NewString()
	d.UpdatedAt = time.Now().UTC()
}

// Empty reports whether the draft has no pending edits.
func (d Draft) Empty() bool {
	return len(d.Documents) == 0 && len(d.Fields) == 0 && len(d.StageComplete) == 0
}

// SaveResult describes what a draft save committed
type SaveResult struct {
	Ticket         ticket.Ticket `json:"ticket"`
	Revision       string        `json:"revision,omitempty"`
	DocumentsSaved int           `json:"documentsSaved"`
	FieldsSaved    int           `json:"fieldsSaved"`
	StagesSaved    int           `json:"stagesSaved"`
	Mirrored       bool          `json:"mirrored"`
	MirrorError    string        `json:"mirrorError,omitempty"`
}

// Draft returns the pending review for a ticket. A ticket without edits
// gets an empty draft.
func (s *Store) Draft(id string) (Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tickets[id]; !ok {
		return Draft{}, false
	}
	if d, ok := s.drafts[id]; ok {
		return d.clone(), true
	}
	return newDraft(id).clone(), true
}

// draftFor must be called with the write lock held.
func (s *Store) draftFor(id string) *Draft {
	d, ok := s.drafts[id]
	if !ok {
		d = newDraft(id)
		s.drafts[id] = d
	}
	return d
}

// ToggleDocument sets the human-validation checkbox of a document.
func (s *Store) ToggleDocument(id, docID string, checked bool) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok || !hasDocument(*t, docID) {
		return Draft{}, false
	}
	d := s.draftFor(id)
	d.Documents[docID] = checked
	d.touch()
	return d.clone(), true
}

// EditField stages a corrected value for an extracted field.
func (s *Store) EditField(id, fieldName, value string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok || !hasField(*t, fieldName) {
		return Draft{}, false
	}
	d := s.draftFor(id)
	d.Fields[fieldName] = value
	d.touch()
	return d.clone(), true
}

// MarkStageComplete sets the completion checkbox of a stage.
func (s *Store) MarkStageComplete(id, stageID string, complete bool) (Draft, bool) {
	if _, ok := pipeline.IndexOf(stageID); !ok {
		return Draft{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[id]; !ok {
		return Draft{}, false
	}
	d := s.draftFor(id)
	d.StageComplete[stageID] = complete
	d.touch()
	return d.clone(), true
}

// DiscardDraft drops pending edits. It reports whether there were any.
func (s *Store) DiscardDraft(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return false
	}
	delete(s.drafts, id)
	return true
}

// SaveDraft commits a ticket's draft: checked documents become validated,
// edited fields take their new value and count as human-validated, and
// completion boxes set the stage status. The committed ticket is handed to
// the mirror, if any; a mirror failure does not undo the save.
func (s *Store) SaveDraft(ctx context.Context, id string) (SaveResult, error) {
	s.mu.Lock()
	t, ok := s.tickets[id]
	if !ok {
		s.mu.Unlock()
		return SaveResult{}, ErrTicketNotFound
	}

	var res SaveResult
	if d, ok := s.drafts[id]; ok {
		res.Revision = d.Revision
		for i := range t.Documents {
			if checked, ok := d.Documents[t.Documents[i].ID]; ok {
				t.Documents[i].Validated = checked
				res.DocumentsSaved++
			}
		}
		for i := range t.ExtractedFields {
			if v, ok := d.Fields[t.ExtractedFields[i].FieldName]; ok {
				t.ExtractedFields[i].Value = v
				t.ExtractedFields[i].Validated = true
				res.FieldsSaved++
			}
		}
		if len(d.StageComplete) > 0 && t.StageStatuses == nil {
			t.StageStatuses = map[string]ticket.StageStatus{}
		}
		for stageID, done := range d.StageComplete {
			if done {
				t.StageStatuses[stageID] = ticket.StageCompleted
			} else if t.StageStatuses[stageID] == ticket.StageCompleted {
				t.StageStatuses[stageID] = ticket.StagePending
			}
			res.StagesSaved++
		}
		delete(s.drafts, id)
	}
	res.Ticket = t.Clone()
	s.saveSeq[id]++
	seq := s.saveSeq[id]
	mirror := s.mirror
	s.mu.Unlock()

	if mirror == nil {
		return res, nil
	}
	if err := s.mirrorSave(ctx, mirror, seq, res.Ticket); err != nil {
		log.Error().
			Err(err).
			Str("ticket", id).
			Msg("Failed to mirror saved ticket")
		res.MirrorError = err.Error()
		return res, nil
	}
	res.Mirrored = true
	return res, nil
}

// mirrorSave writes save seq of a ticket unless a newer save of the same
// ticket already reached the mirror.
func (s *Store) mirrorSave(ctx context.Context, mirror Mirror, seq uint64, t ticket.Ticket) error {
	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()

	if seq <= s.mirroredSeq[t.ID] {
		log.Debug().
			Str("ticket", t.ID).
			Uint64("save", seq).
			Msg("Skipping mirror of superseded save")
		return nil
	}
	if err := mirror.SaveTicket(ctx, t); err != nil {
		return err
	}
	s.mirroredSeq[t.ID] = seq
	return nil
}

func hasDocument(t ticket.Ticket, docID string) bool {
	for _, d := range t.Documents {
		if d.ID == docID {
			return true
		}
	}
	return false
}

func hasField(t ticket.Ticket, name string) bool {
	for _, f := range t.ExtractedFields {
		if f.FieldName == name {
			return true
		}
	}
	return false
}
