package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
)

// StepPatch is the validated form of one incoming step entry. Every field is
// optional; a nil field means the client either omitted it or sent a value of
// the wrong type, and the persisted value is retained. Parsing is the
// explicit branch behind the permissive merge policy: garbage never corrupts
// state, but it never fails the request either.
type StepPatch struct {
	ID int

	Description *string
	Status      *string
	Urgency     *string

	Location           *string
	AffectedPopulation *string
	KeyFindings        *string
	DataCollected      *string
	SolutionType       *string
	Budget             *string
	Timeline           *string
	Feedback           *string
	Outcomes           *string
	ImplementationDate *string

	Tags            *[]string
	ResearchMethods *[]string
	Resources       *[]string
	Stakeholders    *[]string
	MeetingDates    *[]string

	Photos  *[]model.FileRef
	Videos  *[]model.FileRef
	Reports *[]model.FileRef

	Audio      *model.FileRef
	ClearAudio bool
}

// ParseStepPatch converts one raw incoming step object into a StepPatch.
// The id must be an integer in 1..5; everything else is taken only when the
// raw value has the expected type. An explicit null for audio clears it;
// omission leaves it alone.
func ParseStepPatch(raw map[string]any) (StepPatch, error) {
	id, ok := intField(raw, "id")
	if !ok || id < 1 || id > model.StepCount {
		return StepPatch{}, fmt.Errorf("step id must be an integer between 1 and %d", model.StepCount)
	}

	p := StepPatch{ID: id}

	p.Description = stringField(raw, "description")
	p.Location = stringField(raw, "location")
	p.AffectedPopulation = stringField(raw, "affectedPopulation")
	p.KeyFindings = stringField(raw, "keyFindings")
	p.DataCollected = stringField(raw, "dataCollected")
	p.SolutionType = stringField(raw, "solutionType")
	p.Budget = stringField(raw, "budget")
	p.Timeline = stringField(raw, "timeline")
	p.Feedback = stringField(raw, "feedback")
	p.Outcomes = stringField(raw, "outcomes")
	p.ImplementationDate = stringField(raw, "implementationDate")

	if s := stringField(raw, "status"); s != nil && validStepStatuses[*s] {
		p.Status = s
	}
	if u := stringField(raw, "urgency"); u != nil && validUrgencies[*u] {
		p.Urgency = u
	}

	p.Tags = stringListField(raw, "tags")
	p.ResearchMethods = stringListField(raw, "researchMethods")
	p.Resources = stringListField(raw, "resources")
	p.Stakeholders = stringListField(raw, "stakeholders")
	p.MeetingDates = stringListField(raw, "meetingDates")

	p.Photos = fileListField(raw, "photos")
	p.Videos = fileListField(raw, "videos")
	p.Reports = fileListField(raw, "reports")

	if v, present := raw["audio"]; present {
		if v == nil {
			p.ClearAudio = true
		} else if m, ok := v.(map[string]any); ok {
			ref := parseFileRef(m)
			p.Audio = &ref
		}
	}

	return p, nil
}

// MergeSteps applies a batch of incoming step entries onto the persisted
// 5-step sequence. The batch must be exactly 5 entries with valid ids or the
// whole batch is rejected; no partial apply. Output is always the full
// sequence in ascending id order.
func MergeSteps(existing []model.Step, incoming []map[string]any) ([]model.Step, error) {
	if len(incoming) != model.StepCount {
		return nil, FieldErrors{"steps": fmt.Sprintf("steps must contain exactly %d entries", model.StepCount)}
	}

	patches := make(map[int]StepPatch, model.StepCount)
	for i, raw := range incoming {
		p, err := ParseStepPatch(raw)
		if err != nil {
			return nil, FieldErrors{fmt.Sprintf("steps.%d", i): err.Error()}
		}
		patches[p.ID] = p
	}

	merged := make([]model.Step, len(existing))
	copy(merged, existing)

	for i, step := range merged {
		p, ok := patches[step.ID]
		if !ok {
			continue
		}
		merged[i] = applyPatch(step, p)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged, nil
}

func applyPatch(step model.Step, p StepPatch) model.Step {
	// id and title are immutable; a patch never touches them.
	setString(&step.Description, p.Description)
	setString(&step.Location, p.Location)
	setString(&step.AffectedPopulation, p.AffectedPopulation)
	setString(&step.KeyFindings, p.KeyFindings)
	setString(&step.DataCollected, p.DataCollected)
	setString(&step.SolutionType, p.SolutionType)
	setString(&step.Budget, p.Budget)
	setString(&step.Timeline, p.Timeline)
	setString(&step.Feedback, p.Feedback)
	setString(&step.Outcomes, p.Outcomes)
	setString(&step.ImplementationDate, p.ImplementationDate)

	setString(&step.Status, p.Status)
	setString(&step.Urgency, p.Urgency)

	if p.Tags != nil {
		step.Tags = *p.Tags
	}
	if p.ResearchMethods != nil {
		step.ResearchMethods = *p.ResearchMethods
	}
	if p.Resources != nil {
		step.Resources = *p.Resources
	}
	if p.Stakeholders != nil {
		step.Stakeholders = *p.Stakeholders
	}
	if p.MeetingDates != nil {
		step.MeetingDates = *p.MeetingDates
	}

	if p.Photos != nil {
		step.Photos = *p.Photos
	}
	if p.Videos != nil {
		step.Videos = *p.Videos
	}
	if p.Reports != nil {
		step.Reports = *p.Reports
	}

	if p.ClearAudio {
		step.Audio = nil
	} else if p.Audio != nil {
		step.Audio = p.Audio
	}

	return step
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func intField(raw map[string]any, key string) (int, bool) {
	v, ok := raw[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		// JSON numbers arrive as float64; reject fractional ids
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func stringField(raw map[string]any, key string) *string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	return &trimmed
}

func stringListField(raw map[string]any, key string) *[]string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return &out
}

func fileListField(raw map[string]any, key string) *[]model.FileRef {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]model.FileRef, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, parseFileRef(m))
		}
	}
	return &out
}

func parseFileRef(m map[string]any) model.FileRef {
	var ref model.FileRef
	if s, ok := m["name"].(string); ok {
		ref.Name = s
	}
	if s, ok := m["url"].(string); ok {
		ref.URL = s
	}
	if n, ok := m["size"].(float64); ok {
		ref.Size = int64(n)
	}
	if s, ok := m["type"].(string); ok {
		ref.Type = s
	}
	return ref
}
