package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"stealthcompany.com/opsboard/internal/store"
	"stealthcompany.com/opsboard/internal/ticket"
)

func newTestRouter() (*mux.Router, *store.Store) {
	st := store.New(ticket.Seed())
	return NewServer(st, nil).SetupRoutes(), st
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode body %q: %v", rr.Body.String(), err)
	}
}

func TestRouteStatuses(t *testing.T) {
	router, _ := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"Health", "GET", "/health", "", http.StatusOK},
		{"List tickets", "GET", "/tickets", "", http.StatusOK},
		{"Known ticket", "GET", "/tickets/ON-2025-0455", "", http.StatusOK},
		{"Unknown ticket", "GET", "/tickets/UNKNOWN", "", http.StatusNotFound},
		{"Patch unknown ticket is a no-op", "PATCH", "/tickets/UNKNOWN", `{"status":"x"}`, http.StatusNoContent},
		{"Patch with malformed json", "PATCH", "/tickets/ON-2025-0455", `{"status":`, http.StatusBadRequest},
		{"Recommendations", "GET", "/recommendations", "", http.StatusOK},
		{"Summary", "GET", "/summary", "", http.StatusOK},
		{"Stages of unknown ticket", "GET", "/tickets/UNKNOWN/stages", "", http.StatusNotFound},
		{"Stage index too high", "PUT", "/tickets/ON-2025-0455/stages/current", `{"index":8}`, http.StatusBadRequest},
		{"Stage index negative", "PUT", "/tickets/ON-2025-0455/stages/current", `{"index":-1}`, http.StatusBadRequest},
		{"Stage by anchor", "PUT", "/tickets/ON-2025-0455/stages/current", `{"anchor":"approval"}`, http.StatusOK},
		{"Stage without target", "PUT", "/tickets/ON-2025-0455/stages/current", `{}`, http.StatusBadRequest},
		{"Unknown stage status", "PUT", "/tickets/ON-2025-0455/stages/sor/status", `{"status":"done"}`, http.StatusBadRequest},
		{"Unknown stage anchor", "GET", "/tickets/ON-2025-0455/stages/nope/view", "", http.StatusBadRequest},
		{"View of unknown ticket", "GET", "/tickets/UNKNOWN/stages/0/view", "", http.StatusNotFound},
		{"Toggle unknown document", "PUT", "/tickets/ON-2025-0455/draft/documents/99", `{"checked":true}`, http.StatusNotFound},
		{"Save draft of unknown ticket", "POST", "/tickets/UNKNOWN/draft/save", "", http.StatusNotFound},
		{"Invalid vote", "POST", "/tickets/ON-2025-0456/suggestions/1/feedback", `{"vote":"maybe"}`, http.StatusBadRequest},
		{"Unknown suggestion", "GET", "/tickets/ON-2025-0456/suggestions/9/email", "", http.StatusNotFound},
		{"Metrics", "GET", "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(router, tt.method, tt.path, tt.body)
			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (%s)", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestUnknownTicketHasBackLink(t *testing.T) {
	router, _ := newTestRouter()

	rr := do(router, "GET", "/tickets/UNKNOWN", "")

	var body map[string]string
	decode(t, rr, &body)
	if body["error"] != "ticket not found" {
		t.Errorf("Expected error 'ticket not found', got %q", body["error"])
	}
	if body["back"] != "/tickets" {
		t.Errorf("Expected back link '/tickets', got %q", body["back"])
	}
}

func TestListTicketsQueryOverridesFilters(t *testing.T) {
	router, st := newTestRouter()

	rr := do(router, "GET", "/tickets?status=With+Exceptions&sortBy=sla", "")

	var resp TicketListResponse
	decode(t, rr, &resp)
	if resp.Count != 4 {
		t.Errorf("Expected 4 tickets with exceptions, got %d", resp.Count)
	}
	for _, row := range resp.Tickets {
		if row.Exceptions == 0 {
			t.Errorf("Ticket %s has no exceptions", row.ID)
		}
	}
	if resp.Tickets[0].ID != "ON-2025-0456" {
		t.Errorf("Expected most urgent ticket first, got %s", resp.Tickets[0].ID)
	}
	if got := st.Filters().Status; got != "All" {
		t.Errorf("Query filters must not persist, stored status is %q", got)
	}
}

func TestListRowFields(t *testing.T) {
	router, _ := newTestRouter()

	var resp TicketListResponse
	decode(t, do(router, "GET", "/tickets", ""), &resp)

	if resp.Count != 5 {
		t.Fatalf("Expected 5 tickets, got %d", resp.Count)
	}
	first := resp.Tickets[0]
	if first.ID != "ON-2025-0459" {
		t.Fatalf("Expected SLA sort to put ON-2025-0459 first, got %s", first.ID)
	}
	if first.SLABucket != "urgent" || first.SLAColor != "red" {
		t.Errorf("Expected urgent/red, got %s/%s", first.SLABucket, first.SLAColor)
	}
	if !first.HighPriority {
		t.Errorf("Expected urgent ticket to be high priority")
	}
	if first.NextBestAction == "" || first.Insight == "" {
		t.Errorf("Expected next best action and insight to be set")
	}
}

func TestFiltersRoundTrip(t *testing.T) {
	router, _ := newTestRouter()

	rr := do(router, "PUT", "/filters", `{"status":"Final Review","sortBy":"client"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var f store.Filters
	decode(t, do(router, "GET", "/filters", ""), &f)
	if f.Status != "Final Review" || f.SortBy != "client" {
		t.Errorf("Unexpected filters %+v", f)
	}

	var resp TicketListResponse
	decode(t, do(router, "GET", "/tickets", ""), &resp)
	if resp.Count != 1 || resp.Tickets[0].ID != "ON-2025-0459" {
		t.Errorf("Expected only the approval ticket, got %+v", resp.Tickets)
	}
}

func TestSelection(t *testing.T) {
	router, _ := newTestRouter()

	var sel SelectionResponse
	decode(t, do(router, "PUT", "/selection", `{"id":"ON-2025-0458"}`), &sel)
	if sel.ID != "ON-2025-0458" || sel.Ticket == nil {
		t.Fatalf("Expected selection of ON-2025-0458, got %+v", sel)
	}

	var list TicketListResponse
	decode(t, do(router, "GET", "/tickets", ""), &list)
	for _, row := range list.Tickets {
		if row.Selected != (row.ID == "ON-2025-0458") {
			t.Errorf("Row %s selected=%v", row.ID, row.Selected)
		}
	}

	rr := do(router, "DELETE", "/selection", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rr.Code)
	}
	sel = SelectionResponse{}
	decode(t, do(router, "GET", "/selection", ""), &sel)
	if sel.Ticket != nil {
		t.Errorf("Expected no selection, got %+v", sel)
	}

	sel = SelectionResponse{}
	decode(t, do(router, "PUT", "/selection", `{"id":"UNKNOWN"}`), &sel)
	if sel.Ticket != nil {
		t.Errorf("Selecting an unknown id must show nothing")
	}
}

func TestPatchTicketRederivesConcerns(t *testing.T) {
	router, _ := newTestRouter()

	rr := do(router, "PATCH", "/tickets/ON-2025-0450", `{"status":"Pending Approval","exceptions":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var tk ticket.Ticket
	decode(t, rr, &tk)
	if !tk.Concerns.AwaitingApproval || tk.Concerns.MissingDocs {
		t.Errorf("Concerns not re-derived: %+v", tk.Concerns)
	}
}

func TestStageNavigation(t *testing.T) {
	router, _ := newTestRouter()

	var resp StagesResponse
	decode(t, do(router, "GET", "/tickets/ON-2025-0455/stages", ""), &resp)
	if resp.Current != 0 || len(resp.Stages) != 8 {
		t.Fatalf("Expected 8 stages opened at 0, got current=%d len=%d", resp.Current, len(resp.Stages))
	}

	decode(t, do(router, "PUT", "/tickets/ON-2025-0455/stages/current", `{"index":7}`), &resp)
	if resp.Current != 7 || resp.Active.ID != "final-approval" {
		t.Errorf("Expected final approval open, got %d %s", resp.Current, resp.Active.ID)
	}

	do(router, "PUT", "/tickets/ON-2025-0455/stages/current", `{"index":12}`)
	decode(t, do(router, "GET", "/tickets/ON-2025-0455/stages", ""), &resp)
	if resp.Current != 7 {
		t.Errorf("Out of range request must leave the stage unchanged, got %d", resp.Current)
	}
}

func TestSetStageStatus(t *testing.T) {
	router, _ := newTestRouter()

	var resp StagesResponse
	rr := do(router, "PUT", "/tickets/ON-2025-0459/stages/sor/status", `{"status":"exception"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	decode(t, rr, &resp)
	if resp.Stages[3].Status != ticket.StageException {
		t.Errorf("Expected sor-check exception, got %s", resp.Stages[3].Status)
	}
	if len(resp.Exceptions) == 0 || resp.Exceptions[0] != "sor-check" {
		t.Errorf("Expected sor-check in exceptions, got %v", resp.Exceptions)
	}
}

func TestStageViewSORMismatch(t *testing.T) {
	router, _ := newTestRouter()

	rr := do(router, "GET", "/tickets/ON-2025-0455/stages/sor/view", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var v struct {
		Kind string `json:"kind"`
		SOR  struct {
			Source     string `json:"source"`
			Mismatches int    `json:"mismatches"`
		} `json:"sor"`
	}
	decode(t, rr, &v)
	if v.Kind != "sor" || v.SOR.Source != "embedded" || v.SOR.Mismatches != 1 {
		t.Errorf("Unexpected sor view %+v", v)
	}
}

func TestDraftSaveFlow(t *testing.T) {
	router, st := newTestRouter()
	id := "ON-2025-0456"

	rr := do(router, "PUT", "/tickets/"+id+"/draft/documents/3", `{"checked":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	rr = do(router, "PUT", "/tickets/"+id+"/draft/stages/documents", `{"complete":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	if tk, _ := st.Ticket(id); tk.Documents[2].Validated {
		t.Fatalf("Draft must not reach the ticket before save")
	}

	var res store.SaveResult
	decode(t, do(router, "POST", "/tickets/"+id+"/draft/save", ""), &res)
	if res.DocumentsSaved != 1 || res.StagesSaved != 1 {
		t.Errorf("Unexpected save result %+v", res)
	}
	if !res.Ticket.Documents[2].Validated {
		t.Errorf("Expected document 3 validated after save")
	}
	if res.Ticket.StageStatuses["doc-validation"] != ticket.StageCompleted {
		t.Errorf("Expected doc-validation completed after save")
	}

	var d store.Draft
	decode(t, do(router, "GET", "/tickets/"+id+"/draft", ""), &d)
	if !d.Empty() {
		t.Errorf("Expected draft cleared after save, got %+v", d)
	}
}

func TestDraftDiscard(t *testing.T) {
	router, st := newTestRouter()
	id := "ON-2025-0455"

	do(router, "PUT", "/tickets/"+id+"/draft/fields/DOB", `{"value":"08/16/1984"}`)
	rr := do(router, "DELETE", "/tickets/"+id+"/draft", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rr.Code)
	}

	do(router, "POST", "/tickets/"+id+"/draft/save", "")
	tk, _ := st.Ticket(id)
	for _, f := range tk.ExtractedFields {
		if f.FieldName == "DOB" && f.Value != "08/14/1984" {
			t.Errorf("Discarded edit reached the ticket: %s", f.Value)
		}
	}
}

func TestSuggestionFeedbackAndEmail(t *testing.T) {
	router, _ := newTestRouter()

	rr := do(router, "POST", "/tickets/ON-2025-0456/suggestions/1/feedback", `{"vote":"up"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var votes map[string]string
	decode(t, rr, &votes)
	if votes["1"] != "up" {
		t.Errorf("Expected vote recorded, got %v", votes)
	}

	var email struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
	}
	decode(t, do(router, "GET", "/tickets/ON-2025-0456/suggestions/1/email", ""), &email)
	if email.To != "devlin.patel@email.com" {
		t.Errorf("Expected client address, got %q", email.To)
	}
	if !strings.Contains(email.Subject, "Passport") {
		t.Errorf("Expected passport subject, got %q", email.Subject)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	var resp RecommendationsResponse
	decode(t, do(router, "GET", "/recommendations", ""), &resp)
	if resp.AllClear || len(resp.Cards) != 5 {
		t.Errorf("Expected 5 cards on the seed board, got %d (allClear=%v)", len(resp.Cards), resp.AllClear)
	}

	empty := NewServer(store.New(nil), nil).SetupRoutes()
	resp = RecommendationsResponse{}
	decode(t, do(empty, "GET", "/recommendations", ""), &resp)
	if !resp.AllClear || resp.Message == "" {
		t.Errorf("Expected all clear on an empty board, got %+v", resp)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router, _ := newTestRouter()

	rr := do(router, "GET", "/health", "")
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Errorf("Expected a generated request id")
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "7b0e7c5e-1f1e-4a47-9f4c-2f0f6d1b2c3d")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "7b0e7c5e-1f1e-4a47-9f4c-2f0f6d1b2c3d" {
		t.Errorf("Expected incoming request id echoed, got %q", got)
	}
}
