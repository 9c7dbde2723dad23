package ticket

import "strings"

// Concerns are the categories a ticket's free-text status falls into.
// They are derived once when a ticket enters the store and again whenever
// its status or exception count changes.
type Concerns struct {
	MissingDocs       bool `json:"missingDocs"`
	Escalated         bool `json:"escalated"`
	LowConfidence     bool `json:"lowConfidence"`
	AwaitingApproval  bool `json:"awaitingApproval"`
	AwaitingSignature bool `json:"awaitingSignature"`
}

// status tokens recognised in the operator-entered status text
const (
	tokenMissing       = "Missing"
	tokenEscalated     = "Escalated"
	tokenLowConfidence = "Low confidence"
	tokenApproval      = "Approval"
	tokenSignature     = "signature"
)

// DeriveConcerns classifies a status string.
func DeriveConcerns(status string) Concerns {
	return Concerns{
		MissingDocs:       strings.Contains(status, tokenMissing),
		Escalated:         strings.Contains(status, tokenEscalated),
		LowConfidence:     strings.Contains(status, tokenLowConfidence),
		AwaitingApproval:  strings.Contains(status, tokenApproval),
		AwaitingSignature: strings.Contains(status, tokenSignature),
	}
}

// Normalize fills derived and defaulted fields. It is applied to every
// ticket on ingestion.
func (t *Ticket) Normalize() {
	t.Concerns = DeriveConcerns(t.Status)
	if t.Exceptions < 0 {
		t.Exceptions = 0
	}
	if t.StageStatuses == nil {
		t.StageStatuses = map[string]StageStatus{}
	}
}

// InApprovalStage reports whether the pipeline stage label mentions approval.
func (t Ticket) InApprovalStage() bool {
	return strings.Contains(t.Stage, tokenApproval)
}
