package pipeline

import (
	"errors"
	"strconv"
	"strings"

	"stealthcompany.com/opsboard/internal/ticket"
)

// Stage ids in board order
const (
	DocValidation   = "doc-validation"
	AIExtraction    = "ai-extraction"
	FieldValidation = "field-validation"
	SORCheck        = "sor-check"
	DocuSignPrefill = "docusign-prefill"
	GoodOrder       = "good-order"
	WorkflowEntry   = "workflow-entry"
	FinalApproval   = "final-approval"
)

// Count is the fixed number of validation stages.
const Count = 8

var (
	ErrStageOutOfRange = errors.New("stage index out of range")
	ErrUnknownStage    = errors.New("unknown stage")
)

// ValidationStage is one step of the pipeline as shown to an operator
type ValidationStage struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Status      ticket.StageStatus `json:"status"`
	Icon        string             `json:"icon"`
	Description string             `json:"description"`
}

var canonical = [Count]ValidationStage{
	{ID: DocValidation, Name: "Document Validation", Icon: "FileText", Description: "Verify all required documents are submitted and valid"},
	{ID: AIExtraction, Name: "AI Extraction", Icon: "Eye", Description: "Extract data from submitted documents using OCR"},
	{ID: FieldValidation, Name: "Field Validation", Icon: "CheckSquare", Description: "Confirm extracted fields and resolve low-confidence values"},
	{ID: SORCheck, Name: "SOR Cross-check", Icon: "Database", Description: "Cross-reference data with system of record"},
	{ID: DocuSignPrefill, Name: "DocuSign Pre-fill", Icon: "PenTool", Description: "Pre-populate DocuSign forms with extracted data"},
	{ID: GoodOrder, Name: "Good Order Review", Icon: "FileCheck", Description: "Review signatures and completion status"},
	{ID: WorkflowEntry, Name: "Workflow Entry", Icon: "Shield", Description: "Enter application into processing workflow"},
	{ID: FinalApproval, Name: "Final Approval", Icon: "CheckCircle", Description: "Final review and approval for account opening"},
}

// anchors maps the short names used in detail links to stage indexes.
var anchors = map[string]int{
	"documents":  0,
	"extraction": 1,
	"fields":     2,
	"sor":        3,
	"docusign":   4,
	"good-order": 5,
	"workflow":   6,
	"approval":   7,
}

// Canonical returns the stage list with every status pending.
func Canonical() []ValidationStage {
	out := make([]ValidationStage, Count)
	for i, s := range canonical {
		s.Status = ticket.StagePending
		out[i] = s
	}
	return out
}

// Stages resolves the stage list for a ticket from its status map.
func Stages(t ticket.Ticket) []ValidationStage {
	out := Canonical()
	for i := range out {
		if st, ok := t.StageStatuses[out[i].ID]; ok {
			out[i].Status = st
		}
	}
	return out
}

// At returns the canonical stage at index.
func At(index int) (ValidationStage, error) {
	if index < 0 || index >= Count {
		return ValidationStage{}, ErrStageOutOfRange
	}
	s := canonical[index]
	s.Status = ticket.StagePending
	return s, nil
}

// IndexOf finds a stage by id.
func IndexOf(id string) (int, bool) {
	for i, s := range canonical {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Lookup resolves a stage anchor: a numeric index, a stage id or a short
// alias such as "documents" or "approval".
func Lookup(anchor string) (int, error) {
	a := strings.ToLower(strings.TrimSpace(anchor))
	if n, err := strconv.Atoi(a); err == nil {
		if n < 0 || n >= Count {
			return -1, ErrStageOutOfRange
		}
		return n, nil
	}
	if i, ok := IndexOf(a); ok {
		return i, nil
	}
	if i, ok := anchors[a]; ok {
		return i, nil
	}
	return -1, ErrUnknownStage
}
