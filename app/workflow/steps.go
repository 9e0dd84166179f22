// Package workflow owns the project step lifecycle: seeding the fixed
// 5-step sequence, merging partial client edits onto it, deriving progress,
// and gating the one-way submit transition.
package workflow

import (
	"github.com/raghupathi321/Janagraha-sub000/app/model"
)

// StepTitles are fixed per step id and never editable by clients.
var StepTitles = [model.StepCount]string{
	"Identify the Problem",
	"Research the Problem",
	"Propose a Solution",
	"Engage Stakeholders",
	"Implement the Solution",
}

// NewProjectSteps seeds the 5 steps every project starts with.
func NewProjectSteps() []model.Step {
	steps := make([]model.Step, model.StepCount)
	for i := range steps {
		steps[i] = model.Step{
			ID:      i + 1,
			Title:   StepTitles[i],
			Status:  model.StepNotStarted,
			Photos:  []model.FileRef{},
			Videos:  []model.FileRef{},
			Reports: []model.FileRef{},
		}
	}
	return steps
}

var validStepStatuses = map[string]bool{
	model.StepNotStarted: true,
	model.StepInProgress: true,
	model.StepCompleted:  true,
}

var validUrgencies = map[string]bool{
	model.UrgencyLow:      true,
	model.UrgencyMedium:   true,
	model.UrgencyHigh:     true,
	model.UrgencyCritical: true,
}
