package pipeline

import "stealthcompany.com/opsboard/internal/ticket"

// Board is the validation view of one ticket: its stages plus the stage
// the operator is currently looking at. Any stage may be opened at any
// time; nothing guards against skipping ahead.
type Board struct {
	TicketID string            `json:"ticketId"`
	Current  int               `json:"current"`
	Stages   []ValidationStage `json:"stages"`
}

// NewBoard builds the board for a ticket opened at stage 0.
func NewBoard(t ticket.Ticket) Board {
	return Board{TicketID: t.ID, Current: 0, Stages: Stages(t)}
}

// SetCurrent opens the stage at index.
func (b *Board) SetCurrent(index int) error {
	if index < 0 || index >= Count {
		return ErrStageOutOfRange
	}
	b.Current = index
	return nil
}

// Active returns the open stage.
func (b Board) Active() ValidationStage {
	return b.Stages[b.Current]
}

// Completed counts stages in the completed state.
func (b Board) Completed() int {
	n := 0
	for _, s := range b.Stages {
		if s.Status == ticket.StageCompleted {
			n++
		}
	}
	return n
}

// Exceptions lists the ids of stages flagged as exceptions.
func (b Board) Exceptions() []string {
	var ids []string
	for _, s := range b.Stages {
		if s.Status == ticket.StageException {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
