package workflow

import (
	"encoding/json"
	"testing"

	"github.com/raghupathi321/Janagraha-sub000/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepsToMaps round-trips steps through JSON the way a client payload
// arrives.
func stepsToMaps(t *testing.T, steps []model.Step) []map[string]any {
	t.Helper()
	data, err := json.Marshal(steps)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestMergeSteps_IdempotentOnEqualInput(t *testing.T) {
	existing := NewProjectSteps()
	existing[0].Description = "litter on Main St"
	existing[0].Status = model.StepInProgress
	existing[0].Photos = []model.FileRef{{Name: "a.jpg", URL: "/uploads/a.jpg", Size: 123, Type: "image/jpeg"}}
	existing[0].Tags = []string{"waste", "parks"}

	merged, err := MergeSteps(existing, stepsToMaps(t, existing))

	require.NoError(t, err)
	assert.Equal(t, existing, merged)
}

func TestMergeSteps_WrongEntryCount(t *testing.T) {
	existing := NewProjectSteps()
	incoming := stepsToMaps(t, existing)[:3]

	_, err := MergeSteps(existing, incoming)

	require.Error(t, err)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "steps")
}

func TestMergeSteps_InvalidStepID(t *testing.T) {
	existing := NewProjectSteps()
	incoming := stepsToMaps(t, existing)
	incoming[2]["id"] = 9

	_, err := MergeSteps(existing, incoming)

	require.Error(t, err)
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "steps.2")
}

func TestMergeSteps_NonIntegerIDRejectsBatch(t *testing.T) {
	existing := NewProjectSteps()
	incoming := stepsToMaps(t, existing)
	incoming[0]["id"] = 1.5

	_, err := MergeSteps(existing, incoming)
	assert.Error(t, err)
}

func TestMergeSteps_OmittedFieldsPreserved(t *testing.T) {
	existing := NewProjectSteps()
	existing[0].Photos = []model.FileRef{{Name: "before.jpg", URL: "/uploads/before.jpg", Size: 10, Type: "image/jpeg"}}
	existing[0].Location = "Main St"

	incoming := stepsToMaps(t, NewProjectSteps())
	incoming[0] = map[string]any{"id": 1, "description": "updated description"}

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Equal(t, "updated description", merged[0].Description)
	assert.Equal(t, existing[0].Photos, merged[0].Photos)
	assert.Equal(t, "Main St", merged[0].Location)
}

func TestMergeSteps_InvalidEnumValuesRetained(t *testing.T) {
	existing := NewProjectSteps()
	existing[0].Status = model.StepInProgress
	existing[0].Urgency = model.UrgencyHigh

	incoming := stepsToMaps(t, existing)
	incoming[0]["status"] = "Totally Done"
	incoming[0]["urgency"] = "extreme"

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Equal(t, model.StepInProgress, merged[0].Status)
	assert.Equal(t, model.UrgencyHigh, merged[0].Urgency)
}

func TestMergeSteps_ValidEnumValuesApplied(t *testing.T) {
	existing := NewProjectSteps()

	incoming := stepsToMaps(t, existing)
	incoming[0]["status"] = model.StepCompleted
	incoming[0]["urgency"] = model.UrgencyCritical

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Equal(t, model.StepCompleted, merged[0].Status)
	assert.Equal(t, model.UrgencyCritical, merged[0].Urgency)
}

func TestMergeSteps_ListTypeMismatchRetained(t *testing.T) {
	existing := NewProjectSteps()
	existing[0].Tags = []string{"waste"}

	incoming := stepsToMaps(t, existing)
	incoming[0]["tags"] = "not-a-list"

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Equal(t, []string{"waste"}, merged[0].Tags)
}

func TestMergeSteps_ListReplacedWholesale(t *testing.T) {
	existing := NewProjectSteps()
	existing[0].Tags = []string{"waste", "parks"}

	incoming := stepsToMaps(t, existing)
	incoming[0]["tags"] = []any{"transport"}

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Equal(t, []string{"transport"}, merged[0].Tags)
}

func TestMergeSteps_AudioOmissionPreserved(t *testing.T) {
	existing := NewProjectSteps()
	existing[0].Audio = &model.FileRef{Name: "note.mp3", URL: "/uploads/note.mp3", Size: 99, Type: "audio/mpeg"}

	incoming := stepsToMaps(t, NewProjectSteps())
	incoming[0] = map[string]any{"id": 1, "description": "still here"}

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	require.NotNil(t, merged[0].Audio)
	assert.Equal(t, "/uploads/note.mp3", merged[0].Audio.URL)
}

func TestMergeSteps_AudioExplicitNullClears(t *testing.T) {
	existing := NewProjectSteps()
	existing[0].Audio = &model.FileRef{Name: "note.mp3", URL: "/uploads/note.mp3", Size: 99, Type: "audio/mpeg"}

	incoming := stepsToMaps(t, existing)
	incoming[0]["audio"] = nil

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Nil(t, merged[0].Audio)
}

func TestMergeSteps_StringFieldsTrimmed(t *testing.T) {
	existing := NewProjectSteps()

	incoming := stepsToMaps(t, existing)
	incoming[0]["description"] = "  needs trimming  "
	incoming[0]["location"] = "\tMain St\n"

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Equal(t, "needs trimming", merged[0].Description)
	assert.Equal(t, "Main St", merged[0].Location)
}

func TestMergeSteps_StringFieldTypeMismatchRetained(t *testing.T) {
	existing := NewProjectSteps()
	existing[1].KeyFindings = "survey results"

	incoming := stepsToMaps(t, existing)
	incoming[1]["keyFindings"] = 42

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Equal(t, "survey results", merged[1].KeyFindings)
}

func TestMergeSteps_TitleAndIDImmutable(t *testing.T) {
	existing := NewProjectSteps()

	incoming := stepsToMaps(t, existing)
	incoming[0]["title"] = "Hijacked Title"

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	assert.Equal(t, StepTitles[0], merged[0].Title)
	assert.Equal(t, 1, merged[0].ID)
}

func TestMergeSteps_OutputAscendingByID(t *testing.T) {
	existing := NewProjectSteps()

	// incoming entries deliberately out of order
	incoming := stepsToMaps(t, existing)
	incoming[0], incoming[4] = incoming[4], incoming[0]

	merged, err := MergeSteps(existing, incoming)

	require.NoError(t, err)
	require.Len(t, merged, model.StepCount)
	for i, step := range merged {
		assert.Equal(t, i+1, step.ID)
	}
}

func TestParseStepPatch_FileListParsed(t *testing.T) {
	raw := map[string]any{
		"id": 1,
		"photos": []any{
			map[string]any{"name": "a.jpg", "url": "/uploads/a.jpg", "size": float64(123), "type": "image/jpeg"},
		},
	}

	p, err := ParseStepPatch(raw)

	require.NoError(t, err)
	require.NotNil(t, p.Photos)
	require.Len(t, *p.Photos, 1)
	assert.Equal(t, int64(123), (*p.Photos)[0].Size)
	assert.Equal(t, "image/jpeg", (*p.Photos)[0].Type)
}
