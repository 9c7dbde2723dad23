package insight

import (
	"fmt"
	"sort"
	"strings"

	"stealthcompany.com/opsboard/internal/ticket"
)

// Status filter buckets offered by the list view
const (
	FilterAll              = "All"
	FilterWithExceptions   = "With Exceptions"
	FilterFinalReview      = "Final Review"
	FilterWaitingSignature = "Waiting Signature"
)

// Sort keys offered by the list view
const (
	SortSLA        = "sla"
	SortExceptions = "exceptions"
	SortProgress   = "progress"
	SortClient     = "client"
)

// MatchesFilter reports whether a ticket belongs in a status bucket.
// Unknown buckets match everything.
func MatchesFilter(t ticket.Ticket, bucket string) bool {
	switch bucket {
	case FilterWithExceptions:
		return t.Exceptions > 0
	case FilterFinalReview:
		return t.Concerns.AwaitingApproval
	case FilterWaitingSignature:
		return t.Concerns.AwaitingSignature
	}
	return true
}

// Filter keeps the tickets in a bucket, preserving order.
func Filter(tickets []ticket.Ticket, bucket string) []ticket.Ticket {
	out := make([]ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if MatchesFilter(t, bucket) {
			out = append(out, t)
		}
	}
	return out
}

// Sort orders tickets in place. Ties and unknown keys keep board order.
func Sort(tickets []ticket.Ticket, by string) {
	var less func(a, b ticket.Ticket) bool
	switch by {
	case SortSLA:
		less = func(a, b ticket.Ticket) bool { return a.SLAHours < b.SLAHours }
	case SortExceptions:
		less = func(a, b ticket.Ticket) bool { return a.Exceptions > b.Exceptions }
	case SortProgress:
		less = func(a, b ticket.Ticket) bool { return ProgressPercent(a) < ProgressPercent(b) }
	case SortClient:
		less = func(a, b ticket.Ticket) bool {
			return strings.ToLower(a.ClientName) < strings.ToLower(b.ClientName)
		}
	default:
		return
	}
	sort.SliceStable(tickets, func(i, j int) bool { return less(tickets[i], tickets[j]) })
}

// StatusCount is one tile of the summary panel. Filter is the list bucket
// the tile opens.
type StatusCount struct {
	Label  string `json:"label"`
	Value  int    `json:"value"`
	Filter string `json:"filter"`
}

// Summary is the header strip of the board
type Summary struct {
	Tiles       []StatusCount  `json:"tiles"`
	MyWork      []StatusCount  `json:"myWork"`
	SLABuckets  map[Bucket]int `json:"slaBuckets"`
	TotalActive int            `json:"totalActive"`
}

// Summarize counts tickets for the summary and "my work" panels.
func Summarize(tickets []ticket.Ticket) Summary {
	var approval, passport, signature, exceptions, urgent int
	buckets := map[Bucket]int{Urgent: 0, Watch: 0, OnTrack: 0}

	for _, t := range tickets {
		if t.Concerns.AwaitingApproval {
			approval++
		}
		if strings.Contains(t.Status, "passport") {
			passport++
		}
		if t.Concerns.AwaitingSignature {
			signature++
		}
		if t.Exceptions > 0 {
			exceptions++
		}
		b := SLABucket(t.SLAHours)
		if b == Urgent {
			urgent++
		}
		buckets[b]++
	}

	return Summary{
		Tiles: []StatusCount{
			{Label: "Tickets Assigned", Value: len(tickets), Filter: FilterAll},
			{Label: "Pending Final Approval", Value: approval, Filter: FilterFinalReview},
			{Label: "Missing Passport", Value: passport, Filter: FilterWithExceptions},
			{Label: "Waiting Customer Signature", Value: signature, Filter: FilterWaitingSignature},
			{Label: "Exceptions Raised", Value: exceptions, Filter: FilterWithExceptions},
		},
		MyWork: []StatusCount{
			{Label: "Exceptions", Value: exceptions, Filter: FilterWithExceptions},
			{Label: "Pending Approval", Value: approval, Filter: FilterFinalReview},
			{Label: "SLA Critical", Value: urgent, Filter: FilterAll},
		},
		SLABuckets:  buckets,
		TotalActive: len(tickets),
	}
}

// Achievement is one "what the automation did" card
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Stats       string `json:"stats"`
}

// Achievements summarises automation outcomes across the board. All
// percentages are 0 on an empty board.
func Achievements(tickets []ticket.Ticket) []Achievement {
	var totalDocs, validatedDocs, attention, exceptions int
	for _, t := range tickets {
		totalDocs += len(t.Documents)
		validatedDocs += validatedDocuments(t)
		if SLABucket(t.SLAHours) != OnTrack {
			attention++
		}
		exceptions += t.Exceptions
	}

	out := []Achievement{
		{
			Title:       "Document Processing Optimized",
			Description: fmt.Sprintf("%d of %d documents auto-validated.", validatedDocs, totalDocs),
			Stats:       fmt.Sprintf("%d%% automated", Percent(validatedDocs, totalDocs)),
		},
		{
			Title:       "SLA Compliance Enhanced",
			Description: fmt.Sprintf("%d urgent applications identified and prioritized.", attention),
			Stats:       fmt.Sprintf("%d%% on track", Percent(len(tickets)-attention, len(tickets))),
		},
	}
	if exceptions > 0 {
		out = append(out, Achievement{
			Title:       "Exception Auto-Resolution",
			Description: fmt.Sprintf("%d exceptions detected and categorized.", exceptions),
			Stats:       fmt.Sprintf("%d flagged", exceptions),
		})
	}
	return out
}
