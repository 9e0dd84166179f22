package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectSubmitted ProjectStatus = "submitted"
	ProjectEvaluated ProjectStatus = "evaluated"
)

const (
	StepNotStarted = "Not Started"
	StepInProgress = "In Progress"
	StepCompleted  = "Completed"
)

const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

const StepCount = 5

// FileRef points at a stored upload. Immutable once created; removal goes
// through the delete-files endpoint which also clears the blob best-effort.
type FileRef struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
	Size int64  `bson:"size" json:"size"`
	Type string `bson:"type" json:"type"`
}

// Step is one of the 5 fixed workflow stages. Common fields plus the
// id-specific fields for every stage live flat on the one struct, omitempty
// keeping the document lean (same shape the achievements detail doc used).
type Step struct {
	ID          int    `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Status      string `bson:"status" json:"status"`

	Photos  []FileRef `bson:"photos" json:"photos"`
	Videos  []FileRef `bson:"videos" json:"videos"`
	Reports []FileRef `bson:"reports" json:"reports"`
	Audio   *FileRef  `bson:"audio,omitempty" json:"audio,omitempty"`

	// Step 1 - identify problem
	Location           string   `bson:"location,omitempty" json:"location,omitempty"`
	Urgency            string   `bson:"urgency,omitempty" json:"urgency,omitempty"`
	Tags               []string `bson:"tags,omitempty" json:"tags,omitempty"`
	AffectedPopulation string   `bson:"affectedPopulation,omitempty" json:"affectedPopulation,omitempty"`

	// Step 2 - research
	KeyFindings     string   `bson:"keyFindings,omitempty" json:"keyFindings,omitempty"`
	DataCollected   string   `bson:"dataCollected,omitempty" json:"dataCollected,omitempty"`
	ResearchMethods []string `bson:"researchMethods,omitempty" json:"researchMethods,omitempty"`
	Resources       []string `bson:"resources,omitempty" json:"resources,omitempty"`

	// Step 3 - propose solution
	SolutionType string `bson:"solutionType,omitempty" json:"solutionType,omitempty"`
	Budget       string `bson:"budget,omitempty" json:"budget,omitempty"`
	Timeline     string `bson:"timeline,omitempty" json:"timeline,omitempty"`

	// Step 4 - engage stakeholders
	Stakeholders []string `bson:"stakeholders,omitempty" json:"stakeholders,omitempty"`
	MeetingDates []string `bson:"meetingDates,omitempty" json:"meetingDates,omitempty"`
	Feedback     string   `bson:"feedback,omitempty" json:"feedback,omitempty"`

	// Step 5 - implement
	Outcomes           string `bson:"outcomes,omitempty" json:"outcomes,omitempty"`
	ImplementationDate string `bson:"implementationDate,omitempty" json:"implementationDate,omitempty"`
}

// Project is the one-per-user aggregate (collection: projects, unique index
// on userId).
type Project struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"userId" json:"userId"`
	TeamName         string             `bson:"teamName" json:"teamName"`
	Title            string             `bson:"title" json:"title"`
	School           string             `bson:"school" json:"school"`
	Members          int                `bson:"members" json:"members"`
	CurrentStepIndex int                `bson:"currentStepIndex" json:"currentStepIndex"`
	Status           ProjectStatus      `bson:"status" json:"status"`
	IsSubmitted      bool               `bson:"isSubmitted" json:"isSubmitted"`
	OverallProgress  int                `bson:"overallProgress" json:"overallProgress"`
	CompletedSteps   int                `bson:"completedSteps" json:"completedSteps"`
	SubmittedAt      *time.Time         `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	LastSaved        time.Time          `bson:"lastSaved" json:"lastSaved"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	Steps            []Step             `bson:"steps" json:"steps"`
}

type CreateProjectRequest struct {
	TeamName string `json:"teamName" validate:"required"`
	Title    string `json:"title" validate:"required"`
	School   string `json:"school" validate:"required"`
	Members  int    `json:"members" validate:"required,gte=1"`
}

// UpdateProjectRequest carries a draft save. Steps stay untyped here on
// purpose: each entry goes through the merge engine's patch parser, which
// ignores wrong-typed fields instead of rejecting the request.
type UpdateProjectRequest struct {
	TeamName         *string          `json:"teamName,omitempty"`
	Title            *string          `json:"title,omitempty"`
	School           *string          `json:"school,omitempty"`
	Members          *int             `json:"members,omitempty"`
	CurrentStepIndex *int             `json:"currentStepIndex,omitempty"`
	Steps            []map[string]any `json:"steps,omitempty"`
}

// SubmitProjectRequest is the full payload expected at submission time.
// No partial-merge semantics here.
type SubmitProjectRequest struct {
	TeamName string `json:"teamName"`
	Title    string `json:"title"`
	School   string `json:"school"`
	Members  int    `json:"members"`
	Steps    []Step `json:"steps"`
}

type DeleteFileRequest struct {
	StepID int    `json:"stepId" validate:"required,gte=1,lte=5"`
	Field  string `json:"field" validate:"required,oneof=photos videos reports audio"`
	Index  int    `json:"index" validate:"gte=0"`
}

type ProjectStatsResponse struct {
	TotalProjects   int64      `json:"total_projects"`
	ByStatus        []StatItem `json:"by_status"`
	AverageProgress float64    `json:"average_progress"`
}

type StatItem struct {
	Label string `json:"label" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}
