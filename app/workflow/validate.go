package workflow

import (
	"fmt"
	"strings"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
)

// requiredStepFields lists the id-specific fields that must be non-empty at
// submission time, keyed by step id.
var requiredStepFields = map[int][]string{
	1: {"location", "affectedPopulation"},
	2: {"keyFindings", "dataCollected"},
	3: {"solutionType", "timeline", "budget"},
	4: {"feedback"},
	5: {"outcomes", "implementationDate"},
}

// ValidateSubmission is the gate before the one-way submit transition. It
// collects every violation rather than stopping at the first, so a single
// response names all deficient fields and steps. An empty map means valid.
func ValidateSubmission(req model.SubmitProjectRequest) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(req.TeamName) == "" {
		errs["teamName"] = "team name is required"
	}
	if strings.TrimSpace(req.Title) == "" {
		errs["title"] = "project title is required"
	}
	if strings.TrimSpace(req.School) == "" {
		errs["school"] = "school is required"
	}
	if req.Members < 1 {
		errs["members"] = "member count must be a positive integer"
	}

	if len(req.Steps) != model.StepCount {
		errs["steps"] = fmt.Sprintf("steps must contain exactly %d entries", model.StepCount)
		return errs
	}

	for i, step := range req.Steps {
		if step.ID != i+1 {
			errs["steps"] = "step ids must be 1 through 5 in ascending order"
			return errs
		}
		prefix := fmt.Sprintf("steps.%d", step.ID)

		if strings.TrimSpace(step.Description) == "" {
			errs[prefix+".description"] = fmt.Sprintf("step %d description is required", step.ID)
		}
		if step.Status != model.StepCompleted {
			errs[prefix+".status"] = fmt.Sprintf("step %d must be marked %s", step.ID, model.StepCompleted)
		}

		for _, field := range requiredStepFields[step.ID] {
			if strings.TrimSpace(stepFieldValue(step, field)) == "" {
				errs[prefix+"."+field] = fmt.Sprintf("step %d %s is required", step.ID, field)
			}
		}

		if step.Audio != nil && step.Audio.URL == "" {
			errs[prefix+".audio"] = fmt.Sprintf("step %d audio must carry a url", step.ID)
		}
	}

	return errs
}

func stepFieldValue(step model.Step, field string) string {
	switch field {
	case "location":
		return step.Location
	case "affectedPopulation":
		return step.AffectedPopulation
	case "keyFindings":
		return step.KeyFindings
	case "dataCollected":
		return step.DataCollected
	case "solutionType":
		return step.SolutionType
	case "timeline":
		return step.Timeline
	case "budget":
		return step.Budget
	case "feedback":
		return step.Feedback
	case "outcomes":
		return step.Outcomes
	case "implementationDate":
		return step.ImplementationDate
	}
	return ""
}
