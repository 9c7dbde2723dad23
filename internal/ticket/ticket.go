package ticket

import (
	"errors"
	"strings"
)

// AccountType is the product line a ticket is onboarding into
type AccountType string

const (
	AccountIndividual AccountType = "Individual"
	AccountTrust      AccountType = "Trust"
	AccountInvestment AccountType = "Investment"
	AccountCashMgmt   AccountType = "Cash Mgmt"
)

// EmailType tags who sent a message on the ticket thread
type EmailType string

const (
	EmailAdvisor EmailType = "advisor"
	EmailClient  EmailType = "client"
	EmailSystem  EmailType = "system"
)

// SuggestionType selects how a canned recommendation is presented
type SuggestionType string

const (
	SuggestionAction  SuggestionType = "action"
	SuggestionWarning SuggestionType = "warning"
	SuggestionInfo    SuggestionType = "info"
)

// StageStatus is the tri-state flag carried by each validation stage
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageCompleted StageStatus = "completed"
	StageException StageStatus = "exception"
)

// ErrUnknownStatus is returned for a stage status outside pending,
// completed and exception.
var ErrUnknownStatus = errors.New("unknown stage status")

// ParseStageStatus reports whether s names a known stage status.
func ParseStageStatus(s string) (StageStatus, bool) {
	switch StageStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StagePending:
		return StagePending, true
	case StageCompleted:
		return StageCompleted, true
	case StageException:
		return StageException, true
	}
	return "", false
}

// Ticket is one client-onboarding case
type Ticket struct {
	ID              string                 `json:"id" yaml:"id"`
	ClientName      string                 `json:"clientName" yaml:"clientName"`
	AccountType     AccountType            `json:"accountType" yaml:"accountType"`
	Stage           string                 `json:"stage" yaml:"stage"`
	Status          string                 `json:"status" yaml:"status"`
	Exceptions      int                    `json:"exceptions" yaml:"exceptions"`
	SLAHours        int                    `json:"slaHours" yaml:"slaHours"`
	Progress        int                    `json:"progress" yaml:"progress"`
	TotalSteps      int                    `json:"totalSteps" yaml:"totalSteps"`
	Color           string                 `json:"color,omitempty" yaml:"color,omitempty"`
	Documents       []Document             `json:"documents" yaml:"documents"`
	Emails          []Email                `json:"emails" yaml:"emails"`
	SOR             SORRecord              `json:"sorData" yaml:"sorData"`
	Suggestions     []AISuggestion         `json:"aiSuggestions,omitempty" yaml:"aiSuggestions,omitempty"`
	ExtractedFields []ExtractedField       `json:"extractedFields,omitempty" yaml:"extractedFields,omitempty"`
	StageStatuses   map[string]StageStatus `json:"stageStatuses,omitempty" yaml:"stageStatuses,omitempty"`
	Concerns        Concerns               `json:"concerns" yaml:"-"`
}

// Document is a file submitted for the ticket
type Document struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Required   bool   `json:"required" yaml:"required"`
	Validated  bool   `json:"validated" yaml:"validated"`
	Confidence *int   `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Email is one message on the ticket's correspondence thread
type Email struct {
	ID      string    `json:"id" yaml:"id"`
	From    string    `json:"from" yaml:"from"`
	Subject string    `json:"subject" yaml:"subject"`
	Date    string    `json:"date" yaml:"date"`
	Type    EmailType `json:"type" yaml:"type"`
}

// SORRecord is the system-of-record view of the client
type SORRecord struct {
	Name          string `json:"name" yaml:"name"`
	AccountType   string `json:"accountType" yaml:"accountType"`
	DOB           string `json:"dob,omitempty" yaml:"dob,omitempty"`
	Address       string `json:"address,omitempty" yaml:"address,omitempty"`
	Income        string `json:"income,omitempty" yaml:"income,omitempty"`
	EntityName    string `json:"entityName,omitempty" yaml:"entityName,omitempty"`
	ComplianceID  string `json:"complianceId,omitempty" yaml:"complianceId,omitempty"`
	RiskTolerance string `json:"riskTolerance,omitempty" yaml:"riskTolerance,omitempty"`
}

// Fields returns the populated SOR attributes keyed by their canonical name.
func (r SORRecord) Fields() map[string]string {
	out := map[string]string{}
	add := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	add("name", r.Name)
	add("accountType", r.AccountType)
	add("dob", r.DOB)
	add("address", r.Address)
	add("income", r.Income)
	add("entityName", r.EntityName)
	add("complianceId", r.ComplianceID)
	add("riskTolerance", r.RiskTolerance)
	return out
}

// ExtractedField is one OCR result tied back to its source document
type ExtractedField struct {
	FieldName      string `json:"fieldName" yaml:"fieldName"`
	Value          string `json:"value" yaml:"value"`
	SourceDocument string `json:"sourceDocument" yaml:"sourceDocument"`
	Confidence     int    `json:"confidence" yaml:"confidence"`
	Validated      bool   `json:"validated" yaml:"validated"`
}

// AISuggestion is a canned recommendation attached to a ticket
type AISuggestion struct {
	ID         string         `json:"id" yaml:"id"`
	Type       SuggestionType `json:"type" yaml:"type"`
	Message    string         `json:"message" yaml:"message"`
	Action     string         `json:"action,omitempty" yaml:"action,omitempty"`
	Confidence int            `json:"confidence" yaml:"confidence"`
}

// SystemMetrics are the headline figures shown in the insights modal
type SystemMetrics struct {
	ApplicationsCompleted  int    `json:"applicationsCompleted"`
	AvgProcessingTime      string `json:"avgProcessingTime"`
	ManualInterventions    int    `json:"manualInterventions"`
	ExceptionsAutoResolved int    `json:"exceptionsAutoResolved"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (t Ticket) Clone() Ticket {
	c := t
	if t.Documents != nil {
		c.Documents = make([]Document, len(t.Documents))
		for i, d := range t.Documents {
			if d.Confidence != nil {
				v := *d.Confidence
				d.Confidence = &v
			}
			c.Documents[i] = d
		}
	}
	if t.Emails != nil {
		c.Emails = append([]Email(nil), t.Emails...)
	}
	if t.Suggestions != nil {
		c.Suggestions = append([]AISuggestion(nil), t.Suggestions...)
	}
	if t.ExtractedFields != nil {
		c.ExtractedFields = append([]ExtractedField(nil), t.ExtractedFields...)
	}
	if t.StageStatuses != nil {
		c.StageStatuses = make(map[string]StageStatus, len(t.StageStatuses))
		for k, v := range t.StageStatuses {
			c.StageStatuses[k] = v
		}
	}
	return c
}

// Suggestion finds an attached suggestion by id.
func (t Ticket) Suggestion(id string) (AISuggestion, bool) {
	for _, s := range t.Suggestions {
		if s.ID == id {
			return s, true
		}
	}
	return AISuggestion{}, false
}
