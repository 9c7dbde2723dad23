package stageview

import (
	"fmt"

	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/ticket"
)

// FormField is one read-only label/value pair
type FormField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormView is the templated form of the DocuSign, Good Order, Workflow and
// Final Approval stages.
type FormView struct {
	Title  string      `json:"title"`
	Fields []FormField `json:"fields"`
}

func formView(t ticket.Ticket, stage pipeline.ValidationStage) *FormView {
	switch stage.ID {
	case pipeline.DocuSignPrefill:
		return &FormView{
			Title: "Account Opening Agreement",
			Fields: []FormField{
				{"Signer", t.ClientName},
				{"Account Type", string(t.AccountType)},
				{"Date of Birth", orDash(t.SOR.DOB)},
				{"Address", orDash(t.SOR.Address)},
				{"Envelope", fmt.Sprintf("%s-ENV", t.ID)},
			},
		}
	case pipeline.GoodOrder:
		signatures := "Received"
		if t.Concerns.AwaitingSignature {
			signatures = "Pending"
		}
		return &FormView{
			Title: "Good Order Checklist",
			Fields: []FormField{
				{"Signatures", signatures},
				{"Documents Validated", fmt.Sprintf("%d%%", insight.DocumentValidatedPercent(t))},
				{"Open Exceptions", fmt.Sprint(t.Exceptions)},
				{"Compliance ID", orDash(t.SOR.ComplianceID)},
			},
		}
	case pipeline.WorkflowEntry:
		priority := "Normal"
		if insight.HighPriority(t) {
			priority = "High"
		}
		return &FormView{
			Title: "Workflow Submission",
			Fields: []FormField{
				{"Reference", t.ID},
				{"Queue", fmt.Sprintf("%s Onboarding", t.AccountType)},
				{"Priority", priority},
				{"SLA Remaining", fmt.Sprintf("%dh", t.SLAHours)},
			},
		}
	default:
		b := pipeline.NewBoard(t)
		return &FormView{
			Title: "Final Approval",
			Fields: []FormField{
				{"Client", t.ClientName},
				{"Stages Completed", fmt.Sprintf("%d of %d", b.Completed(), pipeline.Count)},
				{"Open Exceptions", fmt.Sprint(t.Exceptions)},
				{"Status", t.Status},
				{"Next Best Action", insight.NextBestAction(t)},
			},
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
