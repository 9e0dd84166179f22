package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
	"github.com/raghupathi321/Janagraha-sub000/app/workflow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProjectExists    = errors.New("project already exists for this user")
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectSubmitted = errors.New("project already submitted")
)

type ProjectRepository interface {
	Create(userID string, req model.CreateProjectRequest) (*model.Project, error)
	FindByUserID(userID string) (*model.Project, error)
	FindByID(id string) (*model.Project, error)
	SaveDraft(id primitive.ObjectID, req model.UpdateProjectRequest, steps []model.Step, progress int, status model.ProjectStatus) error
	SetSteps(id primitive.ObjectID, steps []model.Step) error
	PushFile(id primitive.ObjectID, stepID int, field string, ref model.FileRef) error
	MarkSubmitted(id primitive.ObjectID, req model.SubmitProjectRequest) error
	SetEvaluated(id primitive.ObjectID, completedSteps int) error
	Stats() (*model.ProjectStatsResponse, error)
}

type ProjectRepo struct {
	mongoDB *mongo.Database
}

func NewProjectRepo(mongoDB *mongo.Database) *ProjectRepo {
	return &ProjectRepo{mongoDB: mongoDB}
}

func (r *ProjectRepo) collection() *mongo.Collection {
	return r.mongoDB.Collection("projects")
}

func (r *ProjectRepo) Create(userID string, req model.CreateProjectRequest) (*model.Project, error) {
	now := time.Now()

	project := model.Project{
		UserID:           userID,
		TeamName:         strings.TrimSpace(req.TeamName),
		Title:            strings.TrimSpace(req.Title),
		School:           strings.TrimSpace(req.School),
		Members:          req.Members,
		CurrentStepIndex: 1,
		Status:           model.ProjectDraft,
		IsSubmitted:      false,
		OverallProgress:  0,
		LastSaved:        now,
		CreatedAt:        now,
		Steps:            workflow.NewProjectSteps(),
	}

	res, err := r.collection().InsertOne(context.TODO(), project)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrProjectExists
		}
		return nil, err
	}

	project.ID = res.InsertedID.(primitive.ObjectID)
	return &project, nil
}

func (r *ProjectRepo) FindByUserID(userID string) (*model.Project, error) {
	var project model.Project
	err := r.collection().FindOne(context.TODO(), bson.M{"userId": userID}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepo) FindByID(id string) (*model.Project, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	var project model.Project
	err = r.collection().FindOne(context.TODO(), bson.M{"_id": objID}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// SaveDraft persists a merged draft. The isSubmitted filter makes the
// submitted lock hold at the storage level, not just in the handler.
func (r *ProjectRepo) SaveDraft(id primitive.ObjectID, req model.UpdateProjectRequest, steps []model.Step, progress int, status model.ProjectStatus) error {
	set := bson.M{
		"steps":           steps,
		"overallProgress": progress,
		"status":          status,
		"lastSaved":       time.Now(),
	}

	if req.TeamName != nil {
		set["teamName"] = strings.TrimSpace(*req.TeamName)
	}
	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.School != nil {
		set["school"] = strings.TrimSpace(*req.School)
	}
	if req.Members != nil && *req.Members >= 1 {
		set["members"] = *req.Members
	}
	if req.CurrentStepIndex != nil && *req.CurrentStepIndex >= 1 && *req.CurrentStepIndex <= model.StepCount {
		set["currentStepIndex"] = *req.CurrentStepIndex
	}

	return r.updateDraft(id, bson.M{"$set": set})
}

func (r *ProjectRepo) SetSteps(id primitive.ObjectID, steps []model.Step) error {
	return r.updateDraft(id, bson.M{"$set": bson.M{
		"steps":     steps,
		"lastSaved": time.Now(),
	}})
}

// PushFile appends an attachment to one step's slot, or sets audio. Array
// filters address the step by its stable id rather than its position.
func (r *ProjectRepo) PushFile(id primitive.ObjectID, stepID int, field string, ref model.FileRef) error {
	var update bson.M
	if field == "audio" {
		update = bson.M{"$set": bson.M{
			"steps.$[s].audio": ref,
			"lastSaved":        time.Now(),
		}}
	} else {
		update = bson.M{
			"$push": bson.M{"steps.$[s]." + field: ref},
			"$set":  bson.M{"lastSaved": time.Now()},
		}
	}

	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{"s.id": stepID}},
	}

	res, err := r.collection().UpdateOne(
		context.TODO(),
		bson.M{"_id": id, "isSubmitted": false},
		update,
		options.Update().SetArrayFilters(arrayFilters),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProjectSubmitted
	}
	return nil
}

// MarkSubmitted performs the one-way lock. The filter guarantees the second
// submit matches nothing and surfaces as InvalidState.
func (r *ProjectRepo) MarkSubmitted(id primitive.ObjectID, req model.SubmitProjectRequest) error {
	now := time.Now()
	return r.updateDraft(id, bson.M{"$set": bson.M{
		"teamName":         strings.TrimSpace(req.TeamName),
		"title":            strings.TrimSpace(req.Title),
		"school":           strings.TrimSpace(req.School),
		"members":          req.Members,
		"steps":            req.Steps,
		"isSubmitted":      true,
		"status":           model.ProjectSubmitted,
		"currentStepIndex": model.StepCount,
		"overallProgress":  100,
		"submittedAt":      now,
		"lastSaved":        now,
	}})
}

// SetEvaluated flips the project into its terminal state and records the
// cosmetic completed-step count. Idempotent across multiple evaluations.
func (r *ProjectRepo) SetEvaluated(id primitive.ObjectID, completedSteps int) error {
	_, err := r.collection().UpdateOne(
		context.TODO(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":         model.ProjectEvaluated,
			"completedSteps": completedSteps,
		}},
	)
	return err
}

func (r *ProjectRepo) updateDraft(id primitive.ObjectID, update bson.M) error {
	res, err := r.collection().UpdateOne(
		context.TODO(),
		bson.M{"_id": id, "isSubmitted": false},
		update,
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProjectSubmitted
	}
	return nil
}

func (r *ProjectRepo) Stats() (*model.ProjectStatsResponse, error) {
	coll := r.collection()

	total, err := coll.CountDocuments(context.TODO(), bson.M{})
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := coll.Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var byStatus []model.StatItem
	if err := cursor.All(context.TODO(), &byStatus); err != nil {
		return nil, err
	}

	avgPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$overallProgress"}}}},
	}
	avgCursor, err := coll.Aggregate(context.TODO(), avgPipeline)
	if err != nil {
		return nil, err
	}
	defer avgCursor.Close(context.TODO())

	avgProgress := 0.0
	var avgResult []struct {
		Avg float64 `bson:"avg"`
	}
	if err := avgCursor.All(context.TODO(), &avgResult); err != nil {
		return nil, err
	}
	if len(avgResult) > 0 {
		avgProgress = avgResult[0].Avg
	}

	return &model.ProjectStatsResponse{
		TotalProjects:   total,
		ByStatus:        byStatus,
		AverageProgress: avgProgress,
	}, nil
}
