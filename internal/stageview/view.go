// Package stageview builds the view model for one validation stage of a
// ticket: the document checklist, extracted fields, the system-of-record
// comparison and the read-only forms of the later stages.
package stageview

import (
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/store"
	"stealthcompany.com/opsboard/internal/ticket"
)

// Kind tells the client which section of View is populated
type Kind string

const (
	KindDocuments  Kind = "documents"
	KindExtraction Kind = "extraction"
	KindFields     Kind = "fields"
	KindSOR        Kind = "sor"
	KindForm       Kind = "form"
)

// Empty states
const (
	NoDocuments       = "No documents submitted"
	NoExtractedFields = "No extracted fields available"
	NoDocumentFocus   = "Select a document to view"
	NoFieldFocus      = "Select a field to view its source"
	NothingToCompare  = "No fields to compare with the system of record"
)

// Focus points at the document or field the operator clicked.
type Focus struct {
	Document string `json:"document,omitempty"`
	Field    string `json:"field,omitempty"`
}

// View is the rendered content of one stage. Exactly one of the section
// pointers is set, matching Kind. Empty carries the empty-state message
// when the stage has nothing to show.
type View struct {
	TicketID string                   `json:"ticketId"`
	Index    int                      `json:"index"`
	Stage    pipeline.ValidationStage `json:"stage"`
	Kind     Kind                     `json:"kind"`
	Empty    string                   `json:"empty,omitempty"`
	Complete bool                     `json:"complete"`
	Dirty    bool                     `json:"dirty"`

	Documents  *DocumentsView  `json:"documents,omitempty"`
	Extraction *ExtractionView `json:"extraction,omitempty"`
	SOR        *SORView        `json:"sor,omitempty"`
	Form       *FormView       `json:"form,omitempty"`
}

// Render builds the view of stage index for a ticket. Draft edits are
// overlaid on the ticket's values. A nil sor uses the record embedded in
// the ticket. An index outside the board returns ErrStageOutOfRange.
func Render(t ticket.Ticket, index int, focus Focus, draft store.Draft, sor *ticket.SORRecord) (View, error) {
	if index < 0 || index >= pipeline.Count {
		return View{}, pipeline.ErrStageOutOfRange
	}
	stage := pipeline.Stages(t)[index]

	v := View{
		TicketID: t.ID,
		Index:    index,
		Stage:    stage,
		Complete: stage.Status == ticket.StageCompleted,
		Dirty:    !draft.Empty(),
	}
	if done, ok := draft.StageComplete[stage.ID]; ok {
		v.Complete = done
	}

	switch stage.ID {
	case pipeline.DocValidation:
		v.Kind = KindDocuments
		v.Documents = documentsView(t, focus, draft)
		if len(t.Documents) == 0 {
			v.Empty = NoDocuments
		}
	case pipeline.AIExtraction:
		v.Kind = KindExtraction
		v.Extraction = extractionView(t, focus, draft)
		if len(t.ExtractedFields) == 0 {
			v.Empty = NoExtractedFields
		}
	case pipeline.FieldValidation:
		v.Kind = KindFields
		v.Extraction = extractionView(t, focus, draft)
		if len(t.ExtractedFields) == 0 {
			v.Empty = NoExtractedFields
		}
	case pipeline.SORCheck:
		v.Kind = KindSOR
		v.SOR = sorView(t, draft, sor)
		if len(v.SOR.Rows) == 0 {
			v.Empty = NothingToCompare
		}
	default:
		v.Kind = KindForm
		v.Form = formView(t, stage)
	}
	return v, nil
}
