package stageview

import (
	"path"
	"strings"

	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/store"
	"stealthcompany.com/opsboard/internal/ticket"
)

// DocumentRow is one line of the document checklist
type DocumentRow struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Required     bool         `json:"required"`
	Validated    bool         `json:"validated"`
	Confidence   *int         `json:"confidence,omitempty"`
	Band         insight.Band `json:"band,omitempty"`
	HumanChecked bool         `json:"humanChecked"`
}

// Annotation is an extracted value highlighted on a document preview
type Annotation struct {
	FieldName  string       `json:"fieldName"`
	Value      string       `json:"value"`
	Confidence int          `json:"confidence"`
	Band       insight.Band `json:"band"`
}

// Preview is the mock viewer for the focused document or field
type Preview struct {
	DocumentID  string       `json:"documentId,omitempty"`
	Document    string       `json:"document"`
	Annotations []Annotation `json:"annotations"`
}

// DocumentsView is the Document Validation stage
type DocumentsView struct {
	Rows             []DocumentRow `json:"rows"`
	ValidatedPercent int           `json:"validatedPercent"`
	Preview          *Preview      `json:"preview,omitempty"`
	PreviewEmpty     string        `json:"previewEmpty,omitempty"`
}

// FieldRow is one extracted field with any draft edit applied
type FieldRow struct {
	FieldName      string       `json:"fieldName"`
	Value          string       `json:"value"`
	Original       string       `json:"original"`
	Edited         bool         `json:"edited"`
	SourceDocument string       `json:"sourceDocument"`
	Confidence     int          `json:"confidence"`
	Band           insight.Band `json:"band"`
	Color          string       `json:"color"`
	Validated      bool         `json:"validated"`
}

// ExtractionView serves both the AI Extraction and Field Validation stages.
type ExtractionView struct {
	Rows         []FieldRow `json:"rows"`
	NeedsReview  int        `json:"needsReview"`
	Preview      *Preview   `json:"preview,omitempty"`
	PreviewEmpty string     `json:"previewEmpty,omitempty"`
}

func documentsView(t ticket.Ticket, focus Focus, draft store.Draft) *DocumentsView {
	v := &DocumentsView{
		Rows:             make([]DocumentRow, 0, len(t.Documents)),
		ValidatedPercent: insight.DocumentValidatedPercent(t),
	}
	for _, d := range t.Documents {
		row := DocumentRow{
			ID:           d.ID,
			Name:         d.Name,
			Type:         d.Type,
			Required:     d.Required,
			Validated:    d.Validated,
			Confidence:   d.Confidence,
			HumanChecked: draft.Documents[d.ID],
		}
		if d.Confidence != nil {
			row.Band = insight.ConfidenceBand(*d.Confidence)
		}
		v.Rows = append(v.Rows, row)

		if focus.Document != "" && focus.Document == d.ID {
			v.Preview = &Preview{
				DocumentID:  d.ID,
				Document:    d.Name,
				Annotations: annotations(t, d.Name, draft),
			}
		}
	}
	if v.Preview == nil {
		v.PreviewEmpty = NoDocumentFocus
	}
	return v
}

func extractionView(t ticket.Ticket, focus Focus, draft store.Draft) *ExtractionView {
	v := &ExtractionView{Rows: make([]FieldRow, 0, len(t.ExtractedFields))}
	for _, f := range t.ExtractedFields {
		row := fieldRow(f, draft)
		if !row.Validated || row.Band == insight.BandLow {
			v.NeedsReview++
		}
		v.Rows = append(v.Rows, row)

		if focus.Field != "" && focus.Field == f.FieldName {
			v.Preview = &Preview{
				Document:    f.SourceDocument,
				Annotations: []Annotation{{FieldName: f.FieldName, Value: row.Value, Confidence: f.Confidence, Band: row.Band}},
			}
			if d, ok := documentByName(t, f.SourceDocument); ok {
				v.Preview.DocumentID = d.ID
			}
		}
	}
	if v.Preview == nil {
		v.PreviewEmpty = NoFieldFocus
	}
	return v
}

func fieldRow(f ticket.ExtractedField, draft store.Draft) FieldRow {
	band := insight.ConfidenceBand(f.Confidence)
	row := FieldRow{
		FieldName:      f.FieldName,
		Value:          f.Value,
		Original:       f.Value,
		SourceDocument: f.SourceDocument,
		Confidence:     f.Confidence,
		Band:           band,
		Color:          band.Color(),
		Validated:      f.Validated,
	}
	if edited, ok := draft.Fields[f.FieldName]; ok {
		row.Value = edited
		row.Edited = edited != f.Value
		row.Validated = true
	}
	return row
}

func annotations(t ticket.Ticket, docName string, draft store.Draft) []Annotation {
	out := []Annotation{}
	for _, f := range t.ExtractedFields {
		if !sameDocument(f.SourceDocument, docName) {
			continue
		}
		row := fieldRow(f, draft)
		out = append(out, Annotation{FieldName: f.FieldName, Value: row.Value, Confidence: f.Confidence, Band: row.Band})
	}
	return out
}

func documentByName(t ticket.Ticket, name string) (ticket.Document, bool) {
	for _, d := range t.Documents {
		if sameDocument(d.Name, name) {
			return d, true
		}
	}
	return ticket.Document{}, false
}

// sameDocument matches "Trust Agreement" with "Trust_Agreement.pdf".
func sameDocument(a, b string) bool {
	return docKey(a) == docKey(b)
}

func docKey(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
	return strings.ToLower(name)
}
