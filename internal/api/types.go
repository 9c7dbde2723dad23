package api

import (
	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/store"
	"stealthcompany.com/opsboard/internal/ticket"
)

// TicketRow is one line of the ticket list
type TicketRow struct {
	ID             string              `json:"id"`
	ClientName     string              `json:"clientName"`
	AccountType    ticket.AccountType  `json:"accountType"`
	Stage          string              `json:"stage"`
	Status         string              `json:"status"`
	Badge          insight.StatusBadge `json:"badge"`
	Exceptions     int                 `json:"exceptions"`
	SLAHours       int                 `json:"slaHours"`
	SLABucket      insight.Bucket      `json:"slaBucket"`
	SLAColor       string              `json:"slaColor"`
	ProgressPct    int                 `json:"progressPercent"`
	NextBestAction string              `json:"nextBestAction"`
	Insight        string              `json:"insight"`
	HighPriority   bool                `json:"highPriority"`
	Selected       bool                `json:"selected"`
}

// TicketListResponse is the body of GET /tickets
type TicketListResponse struct {
	Filters store.Filters `json:"filters"`
	Count   int           `json:"count"`
	Tickets []TicketRow   `json:"tickets"`
}

// TicketDetailResponse is the body of GET /tickets/{id}
type TicketDetailResponse struct {
	Ticket          ticket.Ticket       `json:"ticket"`
	Badge           insight.StatusBadge `json:"badge"`
	SLABucket       insight.Bucket      `json:"slaBucket"`
	Issues          []insight.Issue     `json:"issues"`
	NextBestAction  string              `json:"nextBestAction"`
	Recommendations []string            `json:"recommendations"`
	DocumentsPct    int                 `json:"documentsValidatedPercent"`
	Board           pipeline.Board      `json:"board"`
	Feedback        map[string]string   `json:"feedback"`
	HasDraft        bool                `json:"hasDraft"`
}

// SelectionRequest is the body of PUT /selection
type SelectionRequest struct {
	ID *string `json:"id"`
}

// SelectionResponse is the body of GET /selection
type SelectionResponse struct {
	ID     string         `json:"id,omitempty"`
	Ticket *ticket.Ticket `json:"ticket"`
}

// RecommendationsResponse is the body of GET /recommendations
type RecommendationsResponse struct {
	Cards    []insight.Card `json:"cards"`
	AllClear bool           `json:"allClear"`
	Message  string         `json:"message,omitempty"`
}

// SummaryResponse is the body of GET /summary
type SummaryResponse struct {
	Summary      insight.Summary       `json:"summary"`
	Metrics      ticket.SystemMetrics  `json:"metrics"`
	Achievements []insight.Achievement `json:"achievements"`
}

// StagesResponse is the body of the stage list and stage navigation
type StagesResponse struct {
	pipeline.Board
	Active     pipeline.ValidationStage `json:"active"`
	Completed  int                      `json:"completed"`
	Exceptions []string                 `json:"exceptions"`
}

// SetCurrentStageRequest opens a stage by index or by anchor
type SetCurrentStageRequest struct {
	Index  *int   `json:"index"`
	Anchor string `json:"anchor"`
}

// StageStatusRequest is the body of PUT .../stages/{stage}/status
type StageStatusRequest struct {
	Status string `json:"status"`
}

// DocumentCheckRequest toggles human validation of a document
type DocumentCheckRequest struct {
	Checked bool `json:"checked"`
}

// FieldEditRequest replaces an extracted value
type FieldEditRequest struct {
	Value string `json:"value"`
}

// StageCompleteRequest ticks a stage completion box
type StageCompleteRequest struct {
	Complete bool `json:"complete"`
}

// FeedbackRequest is a thumbs up or down on a suggestion
type FeedbackRequest struct {
	Vote string `json:"vote"`
}

func newStagesResponse(b pipeline.Board) StagesResponse {
	ex := b.Exceptions()
	if ex == nil {
		ex = []string{}
	}
	return StagesResponse{
		Board:      b,
		Active:     b.Active(),
		Completed:  b.Completed(),
		Exceptions: ex,
	}
}

func newTicketRow(t ticket.Ticket, selectedID string) TicketRow {
	bucket := insight.SLABucket(t.SLAHours)
	return TicketRow{
		ID:             t.ID,
		ClientName:     t.ClientName,
		AccountType:    t.AccountType,
		Stage:          t.Stage,
		Status:         t.Status,
		Badge:          insight.Badge(t),
		Exceptions:     t.Exceptions,
		SLAHours:       t.SLAHours,
		SLABucket:      bucket,
		SLAColor:       bucket.Color(),
		ProgressPct:    insight.ProgressPercent(t),
		NextBestAction: insight.NextBestAction(t),
		Insight:        insight.Insight(t),
		HighPriority:   insight.HighPriority(t),
		Selected:       t.ID == selectedID,
	}
}
