package store

import (
	"context"
	"errors"
	"sync"

	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/ticket"
)

var ErrTicketNotFound = errors.New("ticket not found")

// Mirror receives a copy of every ticket committed by a draft save.
type Mirror interface {
	SaveTicket(ctx context.Context, t ticket.Ticket) error
}

// Filters are the list view settings
type Filters struct {
	Status string            `json:"status"`
	SortBy string            `json:"sortBy"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Option configures a Store
type Option func(*Store)

// WithMirror attaches a mirror for saved tickets.
func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

// WithMetrics overrides the starting system metrics.
func WithMetrics(m ticket.SystemMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Store owns the board state for the lifetime of the process: tickets,
// selection, list filters, the open stage per ticket and review drafts.
// Reads hand out copies; writes go through the methods below.
type Store struct {
	mu sync.RWMutex

	order   []string
	tickets map[string]*ticket.Ticket

	selected *string
	filters  Filters
	metrics  ticket.SystemMetrics

	current  map[string]int
	drafts   map[string]*Draft
	feedback map[string]map[string]string

	mirror Mirror
	// saveSeq numbers saves per ticket; guarded by mu.
	saveSeq map[string]uint64

	// mirrorMu serializes mirror writes; mirroredSeq is the newest save
	// written per ticket.
	mirrorMu    sync.Mutex
	mirroredSeq map[string]uint64
}

// New builds a store from seed tickets. Tickets are copied and normalized;
// later duplicates of an id are ignored.
func New(seed []ticket.Ticket, opts ...Option) *Store {
	s := &Store{
		tickets:  make(map[string]*ticket.Ticket, len(seed)),
		filters:  Filters{Status: insight.FilterAll, SortBy: insight.SortSLA},
		metrics:  ticket.DefaultMetrics(),
		current:  map[string]int{},
		drafts:   map[string]*Draft{},
		feedback: map[string]map[string]string{},

		saveSeq:     map[string]uint64{},
		mirroredSeq: map[string]uint64{},
	}
	for _, t := range seed {
		if _, dup := s.tickets[t.ID]; dup {
			continue
		}
		c := t.Clone()
		c.Normalize()
		s.tickets[c.ID] = &c
		s.order = append(s.order, c.ID)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tickets returns every ticket in insertion order.
func (s *Store) Tickets() []ticket.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ticket.Ticket, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tickets[id].Clone())
	}
	return out
}

// Ticket looks up a ticket by id.
func (s *Store) Ticket(id string) (ticket.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return ticket.Ticket{}, false
	}
	return t.Clone(), true
}

// Select sets the ticket open in the detail panel. nil clears it. The id
// is not checked; an unknown id simply selects nothing.
func (s *Store) Select(id *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == nil {
		s.selected = nil
		return
	}
	v := *id
	s.selected = &v
}

// Selected returns the open ticket, if any.
func (s *Store) Selected() (ticket.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return ticket.Ticket{}, false
	}
	t, ok := s.tickets[*s.selected]
	if !ok {
		return ticket.Ticket{}, false
	}
	return t.Clone(), true
}

// SetFilter sets one list filter. Values are not validated.
func (s *Store) SetFilter(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "status":
		s.filters.Status = value
	case "sortBy":
		s.filters.SortBy = value
	default:
		if s.filters.Extra == nil {
			s.filters.Extra = map[string]string{}
		}
		s.filters.Extra[key] = value
	}
}

// Filters returns the current list filters.
func (s *Store) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := s.filters
	if s.filters.Extra != nil {
		f.Extra = make(map[string]string, len(s.filters.Extra))
		for k, v := range s.filters.Extra {
			f.Extra[k] = v
		}
	}
	return f
}

// UpdateTicket merges a partial update. Unknown ids are ignored; the
// return value only reports whether anything matched.
func (s *Store) UpdateTicket(id string, p ticket.Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return false
	}
	p.Apply(t)
	return true
}

// Metrics returns the headline system metrics.
func (s *Store) Metrics() ticket.SystemMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// Board returns the validation board of a ticket.
func (s *Store) Board(id string) (pipeline.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return pipeline.Board{}, false
	}
	b := pipeline.NewBoard(*t)
	b.Current = s.current[id]
	return b, true
}

// SetCurrentStage opens a stage on a ticket's board. Any index in range is
// accepted regardless of the other stages' statuses.
func (s *Store) SetCurrentStage(id string, index int) (pipeline.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return pipeline.Board{}, ErrTicketNotFound
	}
	b := pipeline.NewBoard(*t)
	b.Current = s.current[id]
	if err := b.SetCurrent(index); err != nil {
		return b, err
	}
	s.current[id] = index
	return b, nil
}

// SetStageStatus records the status of one stage on a ticket.
func (s *Store) SetStageStatus(id, stageID string, status ticket.StageStatus) error {
	if _, ok := pipeline.IndexOf(stageID); !ok {
		return pipeline.ErrUnknownStage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return ErrTicketNotFound
	}
	if t.StageStatuses == nil {
		t.StageStatuses = map[string]ticket.StageStatus{}
	}
	t.StageStatuses[stageID] = status
	return nil
}

// RecordFeedback stores a thumbs up/down on a suggestion. It reports false
// when the ticket or suggestion does not exist.
func (s *Store) RecordFeedback(id, suggestionID, vote string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return false
	}
	if _, ok := t.Suggestion(suggestionID); !ok {
		return false
	}
	if s.feedback[id] == nil {
		s.feedback[id] = map[string]string{}
	}
	s.feedback[id][suggestionID] = vote
	return true
}

// Feedback returns the recorded votes for a ticket keyed by suggestion id.
func (s *Store) Feedback(id string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.feedback[id]))
	for k, v := range s.feedback[id] {
		out[k] = v
	}
	return out
}
