package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RubricCriteria are the 5 fixed scoring criteria; scores map to them
// positionally.
var RubricCriteria = [5]string{
	"Problem Identification",
	"Research Quality",
	"Solution Feasibility",
	"Stakeholder Engagement",
	"Implementation Impact",
}

// Evaluation is one judge's scored rubric for one submitted project
// (collection: evaluations, compound unique index on projectId+judgeId).
// Never updated or deleted once recorded.
type Evaluation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   string             `bson:"projectId" json:"projectId"`
	JudgeID     string             `bson:"judgeId" json:"judgeId"`
	JudgeName   string             `bson:"judgeName" json:"judgeName"`
	Scores      []int              `bson:"scores" json:"scores"`
	Comments    string             `bson:"comments,omitempty" json:"comments,omitempty"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
}

type CreateEvaluationRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	Scores    []int  `json:"scores" validate:"required,len=5,dive,gte=0,lte=5"`
	Comments  string `json:"comments" validate:"omitempty,max=1000"`
}
