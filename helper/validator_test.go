package helper

import (
	"testing"

	"github.com/raghupathi321/Janagraha-sub000/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_EvaluationScores(t *testing.T) {
	valid := model.CreateEvaluationRequest{
		ProjectID: "507f1f77bcf86cd799439011",
		Scores:    []int{0, 3, 5, 4, 2},
	}
	assert.NoError(t, ValidateStruct(valid))

	wrongLen := valid
	wrongLen.Scores = []int{5, 5, 5}
	err := ValidateStruct(wrongLen)
	require.Error(t, err)
	errs := FormatValidationErrors(err)
	assert.Contains(t, errs, "scores")

	outOfRange := valid
	outOfRange.Scores = []int{0, 3, 6, 4, 2}
	assert.Error(t, ValidateStruct(outOfRange))
}

func TestFormatValidationErrors_CollectsAllFields(t *testing.T) {
	err := ValidateStruct(model.CreateProjectRequest{})
	require.Error(t, err)

	errs := FormatValidationErrors(err)

	assert.Contains(t, errs, "teamName")
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "school")
	assert.Contains(t, errs, "members")
	assert.Equal(t, "teamName is required", errs["teamName"])
}

func TestFormatValidationErrors_RoleOneof(t *testing.T) {
	req := model.CreateUserRequest{
		FullName: "New Judge",
		Email:    "judge@panel.example",
		Password: "longenough",
		Role:     "superuser",
	}

	err := ValidateStruct(req)
	require.Error(t, err)

	errs := FormatValidationErrors(err)
	require.Contains(t, errs, "role")
	assert.Contains(t, errs["role"], "must be one of")
}
