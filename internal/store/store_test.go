package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/ticket"
)

func strPtr(s string) *string { return &s }

type fakeMirror struct {
	mu    sync.Mutex
	saved []ticket.Ticket
	err   error
}

func (f *fakeMirror) SaveTicket(_ context.Context, t ticket.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, t)
	return nil
}

func TestNewKeepsOrderAndDropsDuplicates(t *testing.T) {
	seed := ticket.Seed()
	seed = append(seed, ticket.Ticket{ID: seed[0].ID, ClientName: "dup"})

	s := New(seed)
	got := s.Tickets()
	require.Len(t, got, 5)
	assert.Equal(t, "ON-2025-0450", got[0].ID)
	assert.Equal(t, "Global Health Trust", got[0].ClientName)
}

func TestTicketsAreCopies(t *testing.T) {
	s := New(ticket.Seed())

	got := s.Tickets()
	got[0].ClientName = "changed"
	got[0].Documents[0].Validated = true

	again, ok := s.Ticket("ON-2025-0450")
	require.True(t, ok)
	assert.Equal(t, "Global Health Trust", again.ClientName)
	assert.False(t, again.Documents[0].Validated)
}

func TestSelectionRoundTrip(t *testing.T) {
	s := New(ticket.Seed())

	_, ok := s.Selected()
	assert.False(t, ok)

	s.Select(strPtr("ON-2025-0455"))
	s.Select(strPtr("ON-2025-0456"))
	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "Devlin Patel", sel.ClientName)

	s.Select(nil)
	_, ok = s.Selected()
	assert.False(t, ok)

	s.Select(strPtr("nope"))
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestFilters(t *testing.T) {
	s := New(nil)

	f := s.Filters()
	assert.Equal(t, insight.FilterAll, f.Status)
	assert.Equal(t, insight.SortSLA, f.SortBy)

	s.SetFilter("status", insight.FilterWithExceptions)
	s.SetFilter("sortBy", insight.SortClient)
	s.SetFilter("accountType", "Trust")

	f = s.Filters()
	assert.Equal(t, insight.FilterWithExceptions, f.Status)
	assert.Equal(t, insight.SortClient, f.SortBy)
	assert.Equal(t, "Trust", f.Extra["accountType"])

	f.Extra["accountType"] = "changed"
	assert.Equal(t, "Trust", s.Filters().Extra["accountType"])
}

func TestUpdateTicket(t *testing.T) {
	s := New(ticket.Seed())

	status := "Pending Approval"
	exceptions := 0
	ok := s.UpdateTicket("ON-2025-0450", ticket.Patch{Status: &status, Exceptions: &exceptions})
	require.True(t, ok)

	got, _ := s.Ticket("ON-2025-0450")
	assert.Equal(t, "Pending Approval", got.Status)
	assert.Equal(t, 0, got.Exceptions)
	assert.True(t, got.Concerns.AwaitingApproval)
	assert.False(t, got.Concerns.MissingDocs)
	assert.Equal(t, "Global Health Trust", got.ClientName)

	before := s.Tickets()
	assert.False(t, s.UpdateTicket("missing", ticket.Patch{Status: &status}))
	assert.Equal(t, before, s.Tickets())
}

func TestMetricsDefaults(t *testing.T) {
	assert.Equal(t, ticket.DefaultMetrics(), New(nil).Metrics())

	custom := ticket.SystemMetrics{ApplicationsCompleted: 1}
	assert.Equal(t, custom, New(nil, WithMetrics(custom)).Metrics())
}

func TestBoardNavigation(t *testing.T) {
	s := New(ticket.Seed())

	b, ok := s.Board("ON-2025-0455")
	require.True(t, ok)
	assert.Equal(t, 0, b.Current)
	assert.Len(t, b.Stages, pipeline.Count)

	b, err := s.SetCurrentStage("ON-2025-0455", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, b.Current)

	_, err = s.SetCurrentStage("ON-2025-0455", 8)
	assert.ErrorIs(t, err, pipeline.ErrStageOutOfRange)
	_, err = s.SetCurrentStage("ON-2025-0455", -1)
	assert.ErrorIs(t, err, pipeline.ErrStageOutOfRange)

	b, _ = s.Board("ON-2025-0455")
	assert.Equal(t, 7, b.Current)

	_, err = s.SetCurrentStage("missing", 1)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestSetStageStatus(t *testing.T) {
	s := New(ticket.Seed())

	require.NoError(t, s.SetStageStatus("ON-2025-0456", pipeline.DocValidation, ticket.StageCompleted))
	b, _ := s.Board("ON-2025-0456")
	assert.Equal(t, ticket.StageCompleted, b.Stages[0].Status)

	assert.ErrorIs(t, s.SetStageStatus("ON-2025-0456", "bogus", ticket.StageCompleted), pipeline.ErrUnknownStage)
	assert.ErrorIs(t, s.SetStageStatus("missing", pipeline.DocValidation, ticket.StageCompleted), ErrTicketNotFound)
}

func TestDraftSaveCommits(t *testing.T) {
	mirror := &fakeMirror{}
	s := New(ticket.Seed(), WithMirror(mirror))
	id := "ON-2025-0456"

	d, ok := s.ToggleDocument(id, "3", true)
	require.True(t, ok)
	assert.True(t, d.Documents["3"])
	_, ok = s.MarkStageComplete(id, pipeline.DocValidation, true)
	require.True(t, ok)

	before, _ := s.Ticket(id)
	assert.False(t, before.Documents[2].Validated)

	res, err := s.SaveDraft(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DocumentsSaved)
	assert.Equal(t, 1, res.StagesSaved)
	assert.True(t, res.Mirrored)
	require.Len(t, mirror.saved, 1)
	assert.Equal(t, id, mirror.saved[0].ID)

	after, _ := s.Ticket(id)
	assert.True(t, after.Documents[2].Validated)
	assert.Equal(t, ticket.StageCompleted, after.StageStatuses[pipeline.DocValidation])

	d, _ = s.Draft(id)
	assert.True(t, d.Empty())
}

func TestDraftFieldEdit(t *testing.T) {
	s := New(ticket.Seed())
	id := "ON-2025-0455"

	_, ok := s.EditField(id, "DOB", "03/15/1985")
	require.True(t, ok)
	_, ok = s.EditField(id, "Nope", "x")
	assert.False(t, ok)

	_, err := s.SaveDraft(context.Background(), id)
	require.NoError(t, err)

	got, _ := s.Ticket(id)
	for _, f := range got.ExtractedFields {
		if f.FieldName == "DOB" {
			assert.Equal(t, "03/15/1985", f.Value)
			assert.True(t, f.Validated)
		}
	}
}

func TestDraftDiscardLeavesTicketUnchanged(t *testing.T) {
	s := New(ticket.Seed())
	id := "ON-2025-0450"
	before, _ := s.Ticket(id)

	_, ok := s.ToggleDocument(id, "1", true)
	require.True(t, ok)
	_, ok = s.MarkStageComplete(id, pipeline.DocValidation, true)
	require.True(t, ok)

	assert.True(t, s.DiscardDraft(id))
	assert.False(t, s.DiscardDraft(id))

	after, _ := s.Ticket(id)
	assert.Equal(t, before, after)
}

func TestDraftSurvivesSelectionChange(t *testing.T) {
	s := New(ticket.Seed())
	id := "ON-2025-0450"

	s.Select(strPtr(id))
	_, ok := s.ToggleDocument(id, "1", true)
	require.True(t, ok)
	s.Select(nil)

	d, ok := s.Draft(id)
	require.True(t, ok)
	assert.True(t, d.Documents["1"])
}

func TestDraftUnknownTargets(t *testing.T) {
	s := New(ticket.Seed())

	_, ok := s.ToggleDocument("missing", "1", true)
	assert.False(t, ok)
	_, ok = s.ToggleDocument("ON-2025-0450", "99", true)
	assert.False(t, ok)
	_, ok = s.MarkStageComplete("ON-2025-0450", "bogus", true)
	assert.False(t, ok)
	_, ok = s.Draft("missing")
	assert.False(t, ok)

	_, err := s.SaveDraft(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestDraftUncompleteStage(t *testing.T) {
	s := New(ticket.Seed())
	id := "ON-2025-0459"

	_, ok := s.MarkStageComplete(id, pipeline.WorkflowEntry, false)
	require.True(t, ok)
	_, err := s.SaveDraft(context.Background(), id)
	require.NoError(t, err)

	got, _ := s.Ticket(id)
	assert.Equal(t, ticket.StagePending, got.StageStatuses[pipeline.WorkflowEntry])
}

func TestSaveDraftMirrorFailureKeepsSave(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("cluster down")}
	s := New(ticket.Seed(), WithMirror(mirror))
	id := "ON-2025-0456"

	_, ok := s.ToggleDocument(id, "3", true)
	require.True(t, ok)

	res, err := s.SaveDraft(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, res.Mirrored)
	assert.Equal(t, "cluster down", res.MirrorError)

	got, _ := s.Ticket(id)
	assert.True(t, got.Documents[2].Validated)
}

func TestMirrorKeepsNewestSave(t *testing.T) {
	mirror := &fakeMirror{}
	s := New(ticket.Seed(), WithMirror(mirror))
	ctx := context.Background()

	older, _ := s.Ticket("ON-2025-0455")
	newer := older.Clone()
	newer.Status = "Pending Approval"

	require.NoError(t, s.mirrorSave(ctx, mirror, 2, newer))
	require.NoError(t, s.mirrorSave(ctx, mirror, 1, older))

	require.Len(t, mirror.saved, 1)
	assert.Equal(t, "Pending Approval", mirror.saved[0].Status)
}

func TestConcurrentSavesMirrorLatest(t *testing.T) {
	mirror := &fakeMirror{}
	s := New(ticket.Seed(), WithMirror(mirror))
	id := "ON-2025-0455"

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.EditField(id, "DOB", "08/16/1984")
			_, err := s.SaveDraft(context.Background(), id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.NotEmpty(t, mirror.saved)
	assert.Equal(t, uint64(20), s.mirroredSeq[id])
}

func TestRecordFeedback(t *testing.T) {
	s := New(ticket.Seed())

	assert.True(t, s.RecordFeedback("ON-2025-0455", "1", "up"))
	assert.False(t, s.RecordFeedback("ON-2025-0455", "99", "up"))
	assert.False(t, s.RecordFeedback("missing", "1", "up"))
	assert.Equal(t, map[string]string{"1": "up"}, s.Feedback("ON-2025-0455"))
	assert.Empty(t, s.Feedback("ON-2025-0450"))
}

func TestConcurrentAccess(t *testing.T) {
	s := New(ticket.Seed())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_, _ = s.SetCurrentStage("ON-2025-0450", n%pipeline.Count)
			_, _ = s.ToggleDocument("ON-2025-0450", "1", n%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Tickets()
			_, _ = s.Board("ON-2025-0450")
		}()
	}
	wg.Wait()

	b, ok := s.Board("ON-2025-0450")
	require.True(t, ok)
	assert.GreaterOrEqual(t, b.Current, 0)
}
