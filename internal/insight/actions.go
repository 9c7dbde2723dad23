package insight

import (
	"fmt"
	"strings"

	"stealthcompany.com/opsboard/internal/ticket"
)

// Next-best-action texts
const (
	ActionFollowUp         = "Follow up with client"
	ActionReviewExtraction = "Review AI extractions"
	ActionSeniorReview     = "Senior review required"
	ActionResolveException = "Resolve exception"
	ActionPrioritize       = "Prioritize processing"
	ActionScheduleApproval = "Schedule approval"
	ActionContinue         = "Continue workflow"
)

// NextBestAction picks the single recommended action for a ticket.
// Exceptions outrank SLA urgency, which outranks stage defaults.
func NextBestAction(t ticket.Ticket) string {
	if t.Exceptions > 0 {
		switch {
		case t.Concerns.MissingDocs:
			return ActionFollowUp
		case t.Concerns.LowConfidence:
			return ActionReviewExtraction
		case t.Concerns.Escalated:
			return ActionSeniorReview
		}
		return ActionResolveException
	}

	if SLABucket(t.SLAHours) == Urgent {
		return ActionPrioritize
	}
	if t.InApprovalStage() {
		return ActionScheduleApproval
	}
	return ActionContinue
}

// Insight is the one-line pipeline commentary shown next to a ticket.
func Insight(t ticket.Ticket) string {
	if t.Exceptions > 0 {
		switch {
		case t.Concerns.MissingDocs:
			return "Waiting for client response"
		case t.Concerns.LowConfidence:
			return "Requires manual validation"
		case t.Concerns.Escalated:
			return "Under senior review"
		}
		return "Exception handling in progress"
	}

	if SLABucket(t.SLAHours) == Urgent {
		return "Urgent - SLA deadline approaching"
	}
	switch {
	case strings.Contains(t.Stage, "Extraction"):
		return "AI processing documents"
	case strings.Contains(t.Stage, "Validation"):
		return "Validating extracted data"
	case strings.Contains(t.Stage, "Collection"):
		return "Tracking document submissions"
	case t.InApprovalStage():
		return "Ready for final approval"
	}
	return "Processing normally"
}

// DetailRecommendations lists the hints shown on the ticket detail page.
// It never returns an empty list.
func DetailRecommendations(t ticket.Ticket) []string {
	var recs []string

	if t.Exceptions > 0 {
		if t.Concerns.MissingDocs {
			recs = append(recs, "Request missing KYC documents via automated email")
		}
		if t.Concerns.LowConfidence {
			recs = append(recs, "Review AI-extracted fields for accuracy before proceeding")
		}
	}

	if SLABucket(t.SLAHours) != OnTrack {
		recs = append(recs, fmt.Sprintf("SLA deadline approaching (%dh left) - escalate to next available agent", t.SLAHours))
	}

	if t.Stage == "Document Validation" {
		if pending := len(t.Documents) - validatedDocuments(t); pending > 0 {
			recs = append(recs, fmt.Sprintf("%d documents pending validation - complete document review", pending))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "No immediate actions required - proceed with normal workflow")
	}
	return recs
}
