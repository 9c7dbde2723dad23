package insight

import (
	"fmt"
	"strings"

	"stealthcompany.com/opsboard/internal/ticket"
)

// Category names a recommendation card
type Category string

const (
	CategoryLowConfidence Category = "low-confidence"
	CategoryMissingDocs   Category = "missing-docs"
	CategorySLACritical   Category = "sla-critical"
	CategoryEscalated     Category = "escalated"
	CategoryApprovalReady Category = "approval-ready"
)

// Priority orders cards by how soon they need attention
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// TicketRef identifies a ticket inside a card
type TicketRef struct {
	ID         string `json:"id"`
	ClientName string `json:"clientName"`
}

// Card is one aggregate recommendation across the board
type Card struct {
	Category Category    `json:"category"`
	Priority Priority    `json:"priority"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Count    int         `json:"count"`
	Tickets  []TicketRef `json:"tickets"`
}

// rule matches tickets for a category and renders its message
type rule struct {
	category Category
	priority Priority
	title    string
	match    func(ticket.Ticket) bool
	message  func(count int, names string) string
}

var rules = []rule{
	{
		category: CategoryLowConfidence,
		priority: PriorityMedium,
		title:    "Low-confidence extractions",
		match: func(t ticket.Ticket) bool {
			return t.Exceptions > 0 && (t.Concerns.LowConfidence || hasLowBandField(t))
		},
		message: func(n int, names string) string {
			return fmt.Sprintf("%d %s low-confidence extractions awaiting manual review: %s.",
				n, plural(n, "ticket has", "tickets have"), names)
		},
	},
	{
		category: CategoryMissingDocs,
		priority: PriorityHigh,
		title:    "Missing documents",
		match: func(t ticket.Ticket) bool {
			return t.Exceptions > 0 && t.Concerns.MissingDocs
		},
		message: func(n int, names string) string {
			return fmt.Sprintf("%d %s waiting on client documents: %s. Draft document requests to unblock them.",
				n, plural(n, "ticket is", "tickets are"), names)
		},
	},
	{
		category: CategorySLACritical,
		priority: PriorityCritical,
		title:    "SLA critical",
		match: func(t ticket.Ticket) bool {
			return SLABucket(t.SLAHours) == Urgent
		},
		message: func(n int, names string) string {
			return fmt.Sprintf("%d %s within %dh of the SLA deadline: %s. Prioritize processing now.",
				n, plural(n, "ticket is", "tickets are"), UrgentHours, names)
		},
	},
	{
		category: CategoryEscalated,
		priority: PriorityHigh,
		title:    "Escalations",
		match: func(t ticket.Ticket) bool {
			return t.Exceptions > 0 && t.Concerns.Escalated
		},
		message: func(n int, names string) string {
			return fmt.Sprintf("%d escalated %s senior review: %s.",
				n, plural(n, "ticket needs", "tickets need"), names)
		},
	},
	{
		category: CategoryApprovalReady,
		priority: PriorityLow,
		title:    "Approvals due",
		match: func(t ticket.Ticket) bool {
			return t.Exceptions == 0 &&
				(t.Concerns.AwaitingApproval || t.InApprovalStage()) &&
				SLABucket(t.SLAHours) != OnTrack
		},
		message: func(n int, names string) string {
			return fmt.Sprintf("%d %s ready for final approval before the SLA deadline: %s. Schedule approval.",
				n, plural(n, "ticket is", "tickets are"), names)
		},
	},
}

// Recommendations scans the board and returns one card per category with
// at least one matching ticket. Cards come out in a fixed category order
// and tickets in board order, so repeated calls on the same list agree.
func Recommendations(tickets []ticket.Ticket) []Card {
	cards := []Card{}
	for _, r := range rules {
		var refs []TicketRef
		var names []string
		for _, t := range tickets {
			if !r.match(t) {
				continue
			}
			refs = append(refs, TicketRef{ID: t.ID, ClientName: t.ClientName})
			names = append(names, t.ClientName)
		}
		if len(refs) == 0 {
			continue
		}
		cards = append(cards, Card{
			Category: r.category,
			Priority: r.priority,
			Title:    r.title,
			Message:  r.message(len(refs), strings.Join(names, ", ")),
			Count:    len(refs),
			Tickets:  refs,
		})
	}
	return cards
}

// AllClear reports the "All caught up!" state.
func AllClear(cards []Card) bool {
	return len(cards) == 0
}

// AllClearMessage is shown instead of an empty card list.
const AllClearMessage = "All caught up! No recommendations right now."

func hasLowBandField(t ticket.Ticket) bool {
	for _, f := range t.ExtractedFields {
		if ConfidenceBand(f.Confidence) == BandLow {
			return true
		}
	}
	return false
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
