package workflow

import (
	"testing"

	"github.com/raghupathi321/Janagraha-sub000/app/model"

	"github.com/stretchr/testify/assert"
)

func stepsWithCompleted(n int) []model.Step {
	steps := NewProjectSteps()
	for i := 0; i < n; i++ {
		steps[i].Status = model.StepCompleted
	}
	return steps
}

func TestProgress_AllCounts(t *testing.T) {
	cases := []struct {
		completed int
		progress  int
	}{
		{0, 0},
		{1, 20},
		{2, 40},
		{3, 60},
		{4, 80},
		{5, 100},
	}

	for _, tc := range cases {
		progress, _ := Progress(stepsWithCompleted(tc.completed))
		assert.Equalf(t, tc.progress, progress, "completed=%d", tc.completed)
	}
}

func TestProgress_AdvisoryStatus(t *testing.T) {
	_, status := Progress(stepsWithCompleted(4))
	assert.Equal(t, model.ProjectDraft, status)

	_, status = Progress(stepsWithCompleted(5))
	assert.Equal(t, model.ProjectSubmitted, status)
}

func TestProgress_InProgressNotCounted(t *testing.T) {
	steps := NewProjectSteps()
	for i := range steps {
		steps[i].Status = model.StepInProgress
	}

	progress, status := Progress(steps)

	assert.Equal(t, 0, progress)
	assert.Equal(t, model.ProjectDraft, status)
}

func TestCompletedCount(t *testing.T) {
	assert.Equal(t, 0, CompletedCount(NewProjectSteps()))
	assert.Equal(t, 3, CompletedCount(stepsWithCompleted(3)))
	assert.Equal(t, model.StepCount, CompletedCount(stepsWithCompleted(5)))
}
