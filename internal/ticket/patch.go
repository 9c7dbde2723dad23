package ticket

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	ClientName      *string           `json:"clientName,omitempty"`
	AccountType     *AccountType      `json:"accountType,omitempty"`
	Stage           *string           `json:"stage,omitempty"`
	Status          *string           `json:"status,omitempty"`
	Exceptions      *int              `json:"exceptions,omitempty"`
	SLAHours        *int              `json:"slaHours,omitempty"`
	Progress        *int              `json:"progress,omitempty"`
	TotalSteps      *int              `json:"totalSteps,omitempty"`
	Documents       *[]Document       `json:"documents,omitempty"`
	Emails          *[]Email          `json:"emails,omitempty"`
	SOR             *SORRecord        `json:"sorData,omitempty"`
	Suggestions     *[]AISuggestion   `json:"aiSuggestions,omitempty"`
	ExtractedFields *[]ExtractedField `json:"extractedFields,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.ClientName == nil && p.AccountType == nil && p.Stage == nil &&
		p.Status == nil && p.Exceptions == nil && p.SLAHours == nil &&
		p.Progress == nil && p.TotalSteps == nil && p.Documents == nil &&
		p.Emails == nil && p.SOR == nil && p.Suggestions == nil &&
		p.ExtractedFields == nil
}

// Apply merges the patch into t and re-derives concerns.
func (p Patch) Apply(t *Ticket) {
	if p.ClientName != nil {
		t.ClientName = *p.ClientName
	}
	if p.AccountType != nil {
		t.AccountType = *p.AccountType
	}
	if p.Stage != nil {
		t.Stage = *p.Stage
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Exceptions != nil {
		t.Exceptions = *p.Exceptions
	}
	if p.SLAHours != nil {
		t.SLAHours = *p.SLAHours
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	if p.TotalSteps != nil {
		t.TotalSteps = *p.TotalSteps
	}
	if p.Documents != nil {
		t.Documents = append([]Document(nil), (*p.Documents)...)
	}
	if p.Emails != nil {
		t.Emails = append([]Email(nil), (*p.Emails)...)
	}
	if p.SOR != nil {
		t.SOR = *p.SOR
	}
	if p.Suggestions != nil {
		t.Suggestions = append([]AISuggestion(nil), (*p.Suggestions)...)
	}
	if p.ExtractedFields != nil {
		t.ExtractedFields = append([]ExtractedField(nil), (*p.ExtractedFields)...)
	}
	t.Normalize()
}
