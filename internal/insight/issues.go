package insight

import "stealthcompany.com/opsboard/internal/ticket"

// IssueKind tags where an issue came from
type IssueKind string

const (
	IssueMissingDocs   IssueKind = "missing-docs"
	IssueEscalated     IssueKind = "escalated"
	IssueLowConfidence IssueKind = "low-confidence"
	IssueSuggestion    IssueKind = "suggestion"
)

// Issue is one problem an operator must look at
type Issue struct {
	Kind        IssueKind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	// SuggestionID is set for issues flattened from AI suggestions.
	SuggestionID string `json:"suggestionId,omitempty"`
}

// Issues lists a ticket's issues: status concerns first, in the order
// missing, escalated, low confidence, then one entry per suggestion. A
// ticket without exceptions has none.
func Issues(t ticket.Ticket) []Issue {
	if t.Exceptions <= 0 {
		return []Issue{}
	}

	issues := make([]Issue, 0, 3+len(t.Suggestions))
	if t.Concerns.MissingDocs {
		issues = append(issues, Issue{
			Kind:        IssueMissingDocs,
			Title:       "Missing Documentation",
			Description: t.Status,
			Severity:    "high",
		})
	}
	if t.Concerns.Escalated {
		issues = append(issues, Issue{
			Kind:        IssueEscalated,
			Title:       "Escalated Case",
			Description: t.Status,
			Severity:    "high",
		})
	}
	if t.Concerns.LowConfidence {
		issues = append(issues, Issue{
			Kind:        IssueLowConfidence,
			Title:       "Low Confidence Extraction",
			Description: t.Status,
			Severity:    "medium",
		})
	}

	for _, s := range t.Suggestions {
		issues = append(issues, Issue{
			Kind:         IssueSuggestion,
			Title:        suggestionTitle(s.Type),
			Description:  s.Message,
			Severity:     suggestionSeverity(s.Type),
			SuggestionID: s.ID,
		})
	}
	return issues
}

func suggestionTitle(t ticket.SuggestionType) string {
	switch t {
	case ticket.SuggestionAction:
		return "Recommended Action"
	case ticket.SuggestionWarning:
		return "AI Warning"
	default:
		return "AI Insight"
	}
}

func suggestionSeverity(t ticket.SuggestionType) string {
	switch t {
	case ticket.SuggestionWarning:
		return "medium"
	case ticket.SuggestionAction:
		return "high"
	default:
		return "low"
	}
}
