package ticket

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveConcerns(t *testing.T) {
	tests := []struct {
		status   string
		expected Concerns
	}{
		{"Missing passport", Concerns{MissingDocs: true}},
		{"Missing docs", Concerns{MissingDocs: true}},
		{"Escalated", Concerns{Escalated: true}},
		{"Low confidence", Concerns{LowConfidence: true}},
		{"Pending Approval", Concerns{AwaitingApproval: true}},
		{"Waiting signature", Concerns{AwaitingSignature: true}},
		{"Escalated - Missing W2", Concerns{MissingDocs: true, Escalated: true}},
		{"Validating", Concerns{}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveConcerns(tt.status))
		})
	}
}

func TestSeedIsNormalized(t *testing.T) {
	tickets := Seed()
	require.Len(t, tickets, 5)

	for _, tk := range tickets {
		assert.NotNil(t, tk.StageStatuses, tk.ID)
		assert.Equal(t, DeriveConcerns(tk.Status), tk.Concerns, tk.ID)
	}
	assert.True(t, tickets[2].Concerns.MissingDocs)
	assert.True(t, tickets[4].Concerns.AwaitingApproval)
}

func TestCloneDoesNotShare(t *testing.T) {
	orig := Seed()[1]
	c := orig.Clone()

	c.Documents[0].Name = "changed"
	*c.Documents[0].Confidence = 1
	c.ExtractedFields[0].Value = "changed"
	c.StageStatuses["doc-validation"] = StageException

	assert.Equal(t, "Passport.pdf", orig.Documents[0].Name)
	assert.Equal(t, 95, *orig.Documents[0].Confidence)
	assert.Equal(t, "Kim", orig.ExtractedFields[0].Value)
	assert.Equal(t, StageCompleted, orig.StageStatuses["doc-validation"])
}

func TestPatchApplyRederivesConcerns(t *testing.T) {
	tk := Seed()[4]
	status := "Escalated"
	exceptions := 2

	Patch{Status: &status, Exceptions: &exceptions}.Apply(&tk)

	assert.Equal(t, "Escalated", tk.Status)
	assert.Equal(t, 2, tk.Exceptions)
	assert.True(t, tk.Concerns.Escalated)
	assert.False(t, tk.Concerns.AwaitingApproval)
	assert.Equal(t, "Tyrell Systems", tk.ClientName)
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	hours := 3
	assert.False(t, Patch{SLAHours: &hours}.Empty())
}

func TestParseStageStatus(t *testing.T) {
	s, ok := ParseStageStatus(" Completed ")
	assert.True(t, ok)
	assert.Equal(t, StageCompleted, s)

	_, ok = ParseStageStatus("done")
	assert.False(t, ok)
}

func TestSORFieldsSkipsEmpty(t *testing.T) {
	fields := SORRecord{Name: "Elisa Kim", AccountType: "Cash Mgmt", DOB: "08/16/1984"}.Fields()
	assert.Equal(t, map[string]string{
		"name":        "Elisa Kim",
		"accountType": "Cash Mgmt",
		"dob":         "08/16/1984",
	}, fields)
}

func TestLoadFixtureYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickets.yaml")
	body := strings.TrimSpace(`
tickets:
  - id: ON-1
    clientName: Ada Client
    accountType: Individual
    stage: Document Validation
    status: Missing passport
    exceptions: 1
    slaHours: 4
    progress: 1
    totalSteps: 8
    documents:
      - id: "1"
        name: Passport.pdf
        type: pdf
        required: true
        validated: false
        confidence: 0
    sorData:
      name: Ada Client
      accountType: Individual
    stageStatuses:
      doc-validation: exception
`)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	tickets, err := LoadFixture(path)
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	tk := tickets[0]
	assert.Equal(t, "ON-1", tk.ID)
	assert.True(t, tk.Concerns.MissingDocs)
	require.NotNil(t, tk.Documents[0].Confidence)
	assert.Equal(t, 0, *tk.Documents[0].Confidence)
	assert.Equal(t, StageException, tk.StageStatuses["doc-validation"])
}

func TestLoadFixtureJSONList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickets.json")
	body := `[{"id":"ON-9","clientName":"Bo","status":"Escalated","exceptions":1,"slaHours":1}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	tickets, err := LoadFixture(path)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.True(t, tickets[0].Concerns.Escalated)
	assert.Empty(t, tickets[0].Documents)
}

func TestLoadFixtureRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickets.json")
	body := `{"tickets":[{"id":"A"},{"id":"A"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	_, err := LoadFixture(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadFixtureMissingFile(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
