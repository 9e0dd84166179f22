package repo

import (
	"testing"
	"time"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
	"github.com/raghupathi321/Janagraha-sub000/app/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestProjectRepo_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success seeds five steps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		r := NewProjectRepo(mt.DB)
		project, err := r.Create("user-1", model.CreateProjectRequest{
			TeamName: "  Green Warriors ",
			Title:    "Clean Hebbal Drains",
			School:   "Govt High School Hebbal",
			Members:  4,
		})

		require.NoError(mt, err)
		assert.Equal(mt, "Green Warriors", project.TeamName)
		assert.Equal(mt, "user-1", project.UserID)
		assert.Equal(mt, model.ProjectDraft, project.Status)
		assert.False(mt, project.IsSubmitted)
		assert.Equal(mt, 1, project.CurrentStepIndex)
		assert.Equal(mt, 0, project.OverallProgress)
		require.Len(mt, project.Steps, model.StepCount)
		for i, step := range project.Steps {
			assert.Equal(mt, i+1, step.ID)
			assert.Equal(mt, workflow.StepTitles[i], step.Title)
			assert.Equal(mt, model.StepNotStarted, step.Status)
		}
		assert.False(mt, project.ID.IsZero())
	})

	mt.Run("duplicate user maps to ErrProjectExists", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		r := NewProjectRepo(mt.DB)
		_, err := r.Create("user-1", model.CreateProjectRequest{
			TeamName: "Green Warriors",
			Title:    "Clean Hebbal Drains",
			School:   "Govt High School Hebbal",
			Members:  4,
		})

		assert.ErrorIs(mt, err, ErrProjectExists)
	})
}

func TestProjectRepo_FindByUserID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "janagraha.projects", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "userId", Value: "user-1"},
			{Key: "teamName", Value: "Green Warriors"},
			{Key: "status", Value: string(model.ProjectDraft)},
			{Key: "isSubmitted", Value: false},
		}))

		r := NewProjectRepo(mt.DB)
		project, err := r.FindByUserID("user-1")

		require.NoError(mt, err)
		assert.Equal(mt, id, project.ID)
		assert.Equal(mt, "Green Warriors", project.TeamName)
	})

	mt.Run("missing maps to ErrProjectNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "janagraha.projects", mtest.FirstBatch))

		r := NewProjectRepo(mt.DB)
		_, err := r.FindByUserID("user-2")

		assert.ErrorIs(mt, err, ErrProjectNotFound)
	})
}

func TestProjectRepo_FindByID_BadHex(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("malformed id short-circuits to not found", func(mt *mtest.T) {
		r := NewProjectRepo(mt.DB)
		_, err := r.FindByID("not-a-hex-id")
		assert.ErrorIs(mt, err, ErrProjectNotFound)
	})
}

func TestProjectRepo_SaveDraft(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched draft updates", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		r := NewProjectRepo(mt.DB)
		err := r.SaveDraft(primitive.NewObjectID(), model.UpdateProjectRequest{}, workflow.NewProjectSteps(), 0, model.ProjectDraft)

		assert.NoError(mt, err)
	})

	mt.Run("submitted project matches nothing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		r := NewProjectRepo(mt.DB)
		err := r.SaveDraft(primitive.NewObjectID(), model.UpdateProjectRequest{}, workflow.NewProjectSteps(), 0, model.ProjectDraft)

		assert.ErrorIs(mt, err, ErrProjectSubmitted)
	})
}

func TestProjectRepo_PushFile(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	ref := model.FileRef{Name: "a.jpg", URL: "/uploads/a.jpg", Size: 10, Type: "image/jpeg"}

	mt.Run("draft accepts attachment", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		r := NewProjectRepo(mt.DB)
		assert.NoError(mt, r.PushFile(primitive.NewObjectID(), 1, "photos", ref))
	})

	mt.Run("submitted project rejects attachment", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		r := NewProjectRepo(mt.DB)
		err := r.PushFile(primitive.NewObjectID(), 1, "photos", ref)

		assert.ErrorIs(mt, err, ErrProjectSubmitted)
	})
}

func TestProjectRepo_MarkSubmitted(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	req := model.SubmitProjectRequest{
		TeamName: "Green Warriors",
		Title:    "Clean Hebbal Drains",
		School:   "Govt High School Hebbal",
		Members:  4,
		Steps:    workflow.NewProjectSteps(),
	}

	mt.Run("first submit locks", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		r := NewProjectRepo(mt.DB)
		assert.NoError(mt, r.MarkSubmitted(primitive.NewObjectID(), req))
	})

	mt.Run("second submit surfaces ErrProjectSubmitted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		r := NewProjectRepo(mt.DB)
		err := r.MarkSubmitted(primitive.NewObjectID(), req)

		assert.ErrorIs(mt, err, ErrProjectSubmitted)
	})
}

func TestProjectRepo_SetEvaluated_Idempotent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("runs without draft filter", func(mt *mtest.T) {
		// Matches even when nothing changed; the second evaluation's flip is
		// a no-op, never an error.
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		r := NewProjectRepo(mt.DB)
		assert.NoError(mt, r.SetEvaluated(primitive.NewObjectID(), 5))
	})
}

func TestProjectRepo_Stats(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("aggregates totals and averages", func(mt *mtest.T) {
		countResp := mtest.CreateCursorResponse(0, "janagraha.projects", mtest.FirstBatch, bson.D{
			{Key: "n", Value: 3},
		})
		statusResp := mtest.CreateCursorResponse(0, "janagraha.projects", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: string(model.ProjectDraft)}, {Key: "count", Value: 2}},
		)
		avgResp := mtest.CreateCursorResponse(0, "janagraha.projects", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: 40.0},
		})
		mt.AddMockResponses(countResp, statusResp, avgResp)

		r := NewProjectRepo(mt.DB)
		stats, err := r.Stats()

		require.NoError(mt, err)
		assert.Equal(mt, int64(3), stats.TotalProjects)
		require.Len(mt, stats.ByStatus, 1)
		assert.Equal(mt, string(model.ProjectDraft), stats.ByStatus[0].Label)
		assert.Equal(mt, 40.0, stats.AverageProgress)
	})
}

func TestProjectRepo_CreateTimestamps(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("createdAt and lastSaved set together", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		r := NewProjectRepo(mt.DB)
		before := time.Now().Add(-time.Second)
		project, err := r.Create("user-1", model.CreateProjectRequest{
			TeamName: "Green Warriors",
			Title:    "Clean Hebbal Drains",
			School:   "Govt High School Hebbal",
			Members:  4,
		})

		require.NoError(mt, err)
		assert.True(mt, project.CreatedAt.After(before))
		assert.Equal(mt, project.CreatedAt, project.LastSaved)
		assert.Nil(mt, project.SubmittedAt)
	})
}
