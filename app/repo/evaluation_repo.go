package repo

import (
	"context"
	"errors"
	"time"

	"github.com/raghupathi321/Janagraha-sub000/app/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrAlreadyEvaluated = errors.New("project already evaluated by this judge")

type EvaluationRepository interface {
	Create(eval model.Evaluation) (*model.Evaluation, error)
	FindByProject(projectID string) ([]model.Evaluation, error)
}

type EvaluationRepo struct {
	mongoDB *mongo.Database
}

func NewEvaluationRepo(mongoDB *mongo.Database) *EvaluationRepo {
	return &EvaluationRepo{mongoDB: mongoDB}
}

func (r *EvaluationRepo) collection() *mongo.Collection {
	return r.mongoDB.Collection("evaluations")
}

// Create records one judge's rubric. The compound unique index on
// (projectId, judgeId) is what enforces at-most-once; a duplicate insert
// loses the race and comes back as ErrAlreadyEvaluated.
func (r *EvaluationRepo) Create(eval model.Evaluation) (*model.Evaluation, error) {
	eval.SubmittedAt = time.Now()

	res, err := r.collection().InsertOne(context.TODO(), eval)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyEvaluated
		}
		return nil, err
	}

	eval.ID = res.InsertedID.(primitive.ObjectID)
	return &eval, nil
}

func (r *EvaluationRepo) FindByProject(projectID string) ([]model.Evaluation, error) {
	opts := options.Find().SetSort(bson.M{"submittedAt": 1})
	cursor, err := r.collection().Find(context.TODO(), bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	evaluations := []model.Evaluation{}
	if err := cursor.All(context.TODO(), &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}
