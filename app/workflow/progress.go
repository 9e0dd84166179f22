package workflow

import (
	"math"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
)

// CompletedCount counts the steps marked Completed.
func CompletedCount(steps []model.Step) int {
	n := 0
	for _, s := range steps {
		if s.Status == model.StepCompleted {
			n++
		}
	}
	return n
}

// Progress derives overallProgress and the advisory status from the step
// sequence. The status here is advisory only: the submit endpoint is the
// sole authority for the real submitted transition, and this function never
// runs once a project is locked.
func Progress(steps []model.Step) (int, model.ProjectStatus) {
	completed := CompletedCount(steps)
	progress := int(math.Round(100 * float64(completed) / float64(model.StepCount)))
	status := model.ProjectDraft
	if completed == model.StepCount {
		status = model.ProjectSubmitted
	}
	return progress, status
}
