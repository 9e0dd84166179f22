package service

import (
	"errors"
	"log"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
	"github.com/raghupathi321/Janagraha-sub000/app/repo"
	"github.com/raghupathi321/Janagraha-sub000/app/workflow"
	"github.com/raghupathi321/Janagraha-sub000/helper"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EvaluationService struct {
	repo        repo.EvaluationRepository
	projectRepo repo.ProjectRepository
	userRepo    repo.UserRepository
}

func NewEvaluationService(repo repo.EvaluationRepository, projectRepo repo.ProjectRepository, userRepo repo.UserRepository) *EvaluationService {
	return &EvaluationService{
		repo:        repo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// POST /api/v1/evaluations
func (s *EvaluationService) Create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uuid.UUID)

	// Re-fetch the role from storage rather than trusting the token claim;
	// a judge whose access was revoked mid-session must not score projects.
	judge, err := s.userRepo.FindByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{Success: false, Message: "User not found"})
	}
	if judge.Role != model.RoleJudge && judge.Role != model.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(model.ErrorResponse{Success: false, Message: "Judge or admin role required"})
	}

	var req model.CreateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Invalid input"})
	}

	if err := helper.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  helper.FormatValidationErrors(err),
		})
	}

	project, err := s.projectRepo.FindByID(req.ProjectID)
	if err != nil {
		if errors.Is(err, repo.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse{Success: false, Message: "Project not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	if !project.IsSubmitted {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Project has not been submitted"})
	}

	eval := model.Evaluation{
		ProjectID: project.ID.Hex(),
		JudgeID:   userID.String(),
		JudgeName: judge.FullName,
		Scores:    req.Scores,
		Comments:  req.Comments,
	}

	created, err := s.repo.Create(eval)
	if err != nil {
		if errors.Is(err, repo.ErrAlreadyEvaluated) {
			return c.Status(fiber.StatusConflict).JSON(model.ErrorResponse{Success: false, Message: "You have already evaluated this project"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	// The evaluation is recorded; the status flip is a display side effect
	// and must not undo that fact if it fails.
	if err := s.projectRepo.SetEvaluated(project.ID, workflow.CompletedCount(project.Steps)); err != nil {
		log.Printf("failed to flip project %s to evaluated: %v", project.ID.Hex(), err)
	}

	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[*model.Evaluation]{Success: true, Data: created})
}

// GET /api/v1/evaluations/project/:projectId
func (s *EvaluationService) ListForProject(c *fiber.Ctx) error {
	project, err := s.projectRepo.FindByID(c.Params("projectId"))
	if err != nil {
		if errors.Is(err, repo.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse{Success: false, Message: "Project not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	evaluations, err := s.repo.FindByProject(project.ID.Hex())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(model.SuccessResponse[[]model.Evaluation]{Success: true, Data: evaluations})
}
