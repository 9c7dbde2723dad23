package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stealthcompany.com/opsboard/internal/ticket"
)

func mk(status string, exceptions, sla int) ticket.Ticket {
	t := ticket.Ticket{
		ID:         "T-" + status,
		ClientName: "Client " + status,
		Stage:      "Document Validation",
		Status:     status,
		Exceptions: exceptions,
		SLAHours:   sla,
	}
	t.Normalize()
	return t
}

func TestSLABucketThresholds(t *testing.T) {
	for h := -50; h <= 50; h++ {
		b := SLABucket(h)
		switch {
		case h <= 2:
			assert.Equal(t, Urgent, b, "hours=%d", h)
		case h <= 6:
			assert.Equal(t, Watch, b, "hours=%d", h)
		default:
			assert.Equal(t, OnTrack, b, "hours=%d", h)
		}
	}
	assert.Equal(t, "red", Urgent.Color())
	assert.Equal(t, "yellow", Watch.Color())
	assert.Equal(t, "green", OnTrack.Color())
}

func TestIssuesEmptyWithoutExceptions(t *testing.T) {
	tk := mk("Missing passport", 0, 10)
	tk.Suggestions = []ticket.AISuggestion{{ID: "1", Type: ticket.SuggestionWarning, Message: "x"}}

	issues := Issues(tk)
	require.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestIssuesMissingPassport(t *testing.T) {
	tk := mk("Missing passport", 1, 5)

	issues := Issues(tk)
	require.NotEmpty(t, issues)
	assert.Equal(t, "Missing Documentation", issues[0].Title)
	assert.Equal(t, "Missing passport", issues[0].Description)
	assert.Equal(t, IssueMissingDocs, issues[0].Kind)
}

func TestIssuesOrder(t *testing.T) {
	tk := mk("Low confidence - Escalated - Missing W2", 2, 5)
	tk.Suggestions = []ticket.AISuggestion{
		{ID: "a", Type: ticket.SuggestionWarning, Message: "first"},
		{ID: "b", Type: ticket.SuggestionAction, Message: "second"},
	}

	issues := Issues(tk)
	kinds := make([]IssueKind, len(issues))
	for i, is := range issues {
		kinds[i] = is.Kind
	}
	assert.Equal(t, []IssueKind{
		IssueMissingDocs, IssueEscalated, IssueLowConfidence, IssueSuggestion, IssueSuggestion,
	}, kinds)
	assert.Equal(t, "first", issues[3].Description)
	assert.Equal(t, "b", issues[4].SuggestionID)
}

func TestNextBestAction(t *testing.T) {
	approval := mk("Pending Approval", 0, 20)
	approval.Stage = "Final Approval"

	tests := []struct {
		name     string
		tk       ticket.Ticket
		expected string
	}{
		{"missing outranks urgency", mk("Missing docs", 1, 1), ActionFollowUp},
		{"low confidence", mk("Low confidence", 1, 10), ActionReviewExtraction},
		{"escalated", mk("Escalated", 1, 10), ActionSeniorReview},
		{"generic exception", mk("Validating", 1, 10), ActionResolveException},
		{"urgent", mk("Validating", 0, 2), ActionPrioritize},
		{"approval stage", approval, ActionScheduleApproval},
		{"default", mk("Validating", 0, 7), ActionContinue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextBestAction(tt.tk))
		})
	}
}

func TestUrgentTicketWithoutExceptions(t *testing.T) {
	tk := mk("Validating", 0, 2)

	assert.Equal(t, Urgent, SLABucket(tk.SLAHours))
	assert.Equal(t, "Prioritize processing", NextBestAction(tk))
	assert.Empty(t, Issues(tk))
}

func TestInsight(t *testing.T) {
	assert.Equal(t, "Waiting for client response", Insight(mk("Missing docs", 1, 8)))
	assert.Equal(t, "Urgent - SLA deadline approaching", Insight(mk("Validating", 0, 1)))
	assert.Equal(t, "Validating extracted data", Insight(mk("Validating", 0, 9)))
}

func TestHighPriority(t *testing.T) {
	trust := mk("Missing docs", 1, 10)
	trust.AccountType = ticket.AccountTrust

	assert.True(t, HighPriority(trust))
	assert.True(t, HighPriority(mk("Escalated", 1, 10)))
	assert.True(t, HighPriority(mk("Validating", 0, 2)))
	assert.False(t, HighPriority(mk("Low confidence", 1, 10)))
}

func TestDocumentValidatedPercent(t *testing.T) {
	assert.Equal(t, 0, DocumentValidatedPercent(ticket.Ticket{}))

	tk := ticket.Ticket{Documents: []ticket.Document{
		{ID: "1", Validated: true},
		{ID: "2", Validated: true},
		{ID: "3", Validated: false},
	}}
	assert.Equal(t, 67, DocumentValidatedPercent(tk))
	assert.Equal(t, 0, ProgressPercent(ticket.Ticket{Progress: 3}))
}

func TestConfidenceBand(t *testing.T) {
	assert.Equal(t, BandHigh, ConfidenceBand(90))
	assert.Equal(t, BandMedium, ConfidenceBand(89))
	assert.Equal(t, BandMedium, ConfidenceBand(70))
	assert.Equal(t, BandLow, ConfidenceBand(69))
	assert.Equal(t, "red", BandLow.Color())
}

func TestBadge(t *testing.T) {
	assert.Equal(t, StatusBadge{BadgeDestructive, "1 Exception"}, Badge(mk("Escalated", 1, 5)))
	assert.Equal(t, StatusBadge{BadgeDestructive, "3 Exceptions"}, Badge(mk("Escalated", 3, 5)))
	assert.Equal(t, StatusBadge{BadgeSuccess, "Pending Approval"}, Badge(mk("Pending Approval", 0, 5)))
	assert.Equal(t, StatusBadge{BadgeWarning, "Validating"}, Badge(mk("Validating", 0, 5)))
	assert.Equal(t, StatusBadge{BadgeDefault, "New"}, Badge(mk("New", 0, 5)))
}

func TestRecommendationsOnSeed(t *testing.T) {
	cards := Recommendations(ticket.Seed())

	var categories []Category
	for _, c := range cards {
		categories = append(categories, c.Category)
		assert.Equal(t, len(c.Tickets), c.Count)
	}
	assert.Equal(t, []Category{
		CategoryLowConfidence,
		CategoryMissingDocs,
		CategorySLACritical,
		CategoryEscalated,
		CategoryApprovalReady,
	}, categories)

	missing := cards[1]
	assert.Equal(t, 2, missing.Count)
	assert.Equal(t, PriorityHigh, missing.Priority)
	assert.Equal(t,
		"2 tickets are waiting on client documents: Global Health Trust, Devlin Patel. Draft document requests to unblock them.",
		missing.Message)
	assert.Contains(t, cards[2].Message, "Tyrell Systems")
}

func TestRecommendationsIdempotent(t *testing.T) {
	tickets := ticket.Seed()
	first := Recommendations(tickets)
	second := Recommendations(tickets)
	assert.Equal(t, first, second)
}

func TestRecommendationsAllClear(t *testing.T) {
	tickets := []ticket.Ticket{
		mk("Validating", 0, 7),
		mk("Pending Approval", 0, 30),
		mk("Missing docs", 0, 12),
	}
	tickets[1].Stage = "Final Approval"

	cards := Recommendations(tickets)
	assert.Empty(t, cards)
	assert.True(t, AllClear(cards))
}

func TestFilterAndSort(t *testing.T) {
	tickets := ticket.Seed()

	withExceptions := Filter(tickets, FilterWithExceptions)
	assert.Len(t, withExceptions, 4)
	assert.Len(t, Filter(tickets, FilterFinalReview), 1)
	assert.Len(t, Filter(tickets, "anything"), 5)
	assert.Empty(t, Filter(tickets, FilterWaitingSignature))

	Sort(tickets, SortSLA)
	assert.Equal(t, "ON-2025-0459", tickets[0].ID)
	assert.Equal(t, "ON-2025-0458", tickets[4].ID)

	Sort(tickets, SortClient)
	assert.Equal(t, "Devlin Patel", tickets[0].ClientName)

	before := append([]ticket.Ticket(nil), tickets...)
	Sort(tickets, "unknown")
	assert.Equal(t, before, tickets)
}

func TestSummarize(t *testing.T) {
	s := Summarize(ticket.Seed())

	assert.Equal(t, 5, s.TotalActive)
	assert.Equal(t, 5, s.Tiles[0].Value)
	assert.Equal(t, 1, s.Tiles[1].Value)
	assert.Equal(t, 1, s.Tiles[2].Value)
	assert.Equal(t, 4, s.Tiles[4].Value)
	assert.Equal(t, 1, s.SLABuckets[Urgent])
	assert.Equal(t, 2, s.SLABuckets[Watch])
	assert.Equal(t, 2, s.SLABuckets[OnTrack])
}

func TestAchievementsEmptyBoard(t *testing.T) {
	out := Achievements(nil)
	require.Len(t, out, 2)
	assert.Equal(t, "0% automated", out[0].Stats)
	assert.Equal(t, "0% on track", out[1].Stats)
}

func TestDetailRecommendations(t *testing.T) {
	devlin := ticket.Seed()[2]
	recs := DetailRecommendations(devlin)
	assert.Equal(t, []string{
		"Request missing KYC documents via automated email",
		"SLA deadline approaching (5h left) - escalate to next available agent",
		"1 documents pending validation - complete document review",
	}, recs)

	calm := mk("Validating", 0, 20)
	calm.Stage = "Workflow Entry"
	assert.Equal(t, []string{"No immediate actions required - proceed with normal workflow"}, DetailRecommendations(calm))
}
