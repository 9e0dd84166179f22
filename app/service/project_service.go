package service

import (
	"errors"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
	"github.com/raghupathi321/Janagraha-sub000/app/repo"
	"github.com/raghupathi321/Janagraha-sub000/app/workflow"
	"github.com/raghupathi321/Janagraha-sub000/config"
	"github.com/raghupathi321/Janagraha-sub000/helper"
	"github.com/raghupathi321/Janagraha-sub000/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProjectService struct {
	repo repo.ProjectRepository
}

func NewProjectService(repo repo.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// requireOwner is the single ownership check every project operation goes
// through. Ownership is never implicit: loading by id says nothing about who
// may touch the document.
func requireOwner(c *fiber.Ctx, project *model.Project) bool {
	userID := c.Locals("user_id").(uuid.UUID)
	return project.UserID == userID.String()
}

// GET /api/v1/projects/me
func (s *ProjectService) GetMine(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uuid.UUID)

	project, err := s.repo.FindByUserID(userID.String())
	if err != nil {
		if errors.Is(err, repo.ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse{Success: false, Message: "No project found for this user"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(model.SuccessResponse[*model.Project]{Success: true, Data: project})
}

// POST /api/v1/projects
func (s *ProjectService) Create(c *fiber.Ctx) error {
	var req model.CreateProjectRequest
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

	userID := c.Locals("user_id").(uuid.UUID)

	project, err := s.repo.Create(userID.String(), req)
	if err != nil {
		if errors.Is(err, repo.ErrProjectExists) {
			return c.Status(fiber.StatusConflict).JSON(model.ErrorResponse{Success: false, Message: "A project already exists for this user"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[*model.Project]{Success: true, Data: project})
}

// PUT /api/v1/projects/:id
func (s *ProjectService) Update(c *fiber.Ctx) error {
	project, errResp := s.loadOwned(c)
	if project == nil {
		return errResp
	}

	if project.IsSubmitted {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Cannot edit a submitted project"})
	}

	var req model.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Invalid input"})
	}

	steps := project.Steps
	if req.Steps != nil {
		merged, err := workflow.MergeSteps(project.Steps, req.Steps)
		if err != nil {
			var fieldErrs workflow.FieldErrors
			if errors.As(err, &fieldErrs) {
				return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
					Success: false,
					Message: "Validation failed",
					Errors:  fieldErrs,
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
		}
		steps = merged
	}

	progress, status := workflow.Progress(steps)

	if err := s.repo.SaveDraft(project.ID, req, steps, progress, status); err != nil {
		if errors.Is(err, repo.ErrProjectSubmitted) {
			return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Cannot edit a submitted project"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	updated, err := s.repo.FindByID(project.ID.Hex())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(model.SuccessResponse[*model.Project]{Success: true, Data: updated})
}

// POST /api/v1/projects/:id/upload
func (s *ProjectService) Upload(c *fiber.Ctx) error {
	project, errResp := s.loadOwned(c)
	if project == nil {
		return errResp
	}

	if project.IsSubmitted {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Cannot upload to a submitted project"})
	}

	stepID := c.FormValue("stepId")
	field := c.FormValue("field")

	stepNum, ok := parseStepID(stepID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "stepId must be between 1 and 5"})
	}
	if !storage.AllowedField(field) {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "field must be one of photos, videos, reports, audio"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "File required"})
	}

	ref, err := storage.Save(file, field, config.GetUploadDir())
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrTypeNotAllowed) {
			return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: "Failed saving file"})
	}

	if err := s.repo.PushFile(project.ID, stepNum, field, *ref); err != nil {
		// the upload never reached the project; remove the orphan blob
		storage.Delete(ref.URL, config.GetUploadDir())
		if errors.Is(err, repo.ErrProjectSubmitted) {
			return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Cannot upload to a submitted project"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: "Failed updating project"})
	}

	return c.JSON(model.SuccessResponse[*model.FileRef]{Success: true, Data: ref})
}

// DELETE /api/v1/projects/:id/files
func (s *ProjectService) DeleteFile(c *fiber.Ctx) error {
	project, errResp := s.loadOwned(c)
	if project == nil {
		return errResp
	}

	if project.IsSubmitted {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Cannot modify a submitted project"})
	}

	var req model.DeleteFileRequest
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

	removedURL := ""
	found := false
	for i := range project.Steps {
		if project.Steps[i].ID != req.StepID {
			continue
		}
		step := &project.Steps[i]
		switch req.Field {
		case "audio":
			if step.Audio != nil {
				removedURL = step.Audio.URL
				step.Audio = nil
				found = true
			}
		case "photos":
			removedURL, found = removeAt(&step.Photos, req.Index)
		case "videos":
			removedURL, found = removeAt(&step.Videos, req.Index)
		case "reports":
			removedURL, found = removeAt(&step.Reports, req.Index)
		}
		break
	}

	if !found {
		return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse{Success: false, Message: "Attachment not found"})
	}

	if err := s.repo.SetSteps(project.ID, project.Steps); err != nil {
		if errors.Is(err, repo.ErrProjectSubmitted) {
			return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Cannot modify a submitted project"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	// best-effort; a blob that is already gone only gets logged
	storage.Delete(removedURL, config.GetUploadDir())

	return c.JSON(model.SuccessMessageResponse{Success: true, Message: "Attachment removed"})
}

// POST /api/v1/projects/:id/submit
func (s *ProjectService) Submit(c *fiber.Ctx) error {
	project, errResp := s.loadOwned(c)
	if project == nil {
		return errResp
	}

	if project.IsSubmitted {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Project already submitted"})
	}

	var req model.SubmitProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Invalid input"})
	}

	// titles are immutable per step id regardless of what the payload carries
	for i := range req.Steps {
		if req.Steps[i].ID >= 1 && req.Steps[i].ID <= model.StepCount {
			req.Steps[i].Title = workflow.StepTitles[req.Steps[i].ID-1]
		}
	}

	if errs := workflow.ValidateSubmission(req); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: "Project is not ready for submission",
			Errors:  errs,
		})
	}

	if err := s.repo.MarkSubmitted(project.ID, req); err != nil {
		if errors.Is(err, repo.ErrProjectSubmitted) {
			return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Success: false, Message: "Project already submitted"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	submitted, err := s.repo.FindByID(project.ID.Hex())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	return c.JSON(model.SuccessResponse[*model.Project]{Success: true, Message: "Project submitted", Data: submitted})
}

// GET /api/v1/projects/stats
func (s *ProjectService) Stats(c *fiber.Ctx) error {
	stats, err := s.repo.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}
	return c.JSON(model.SuccessResponse[*model.ProjectStatsResponse]{Success: true, Data: stats})
}

// loadOwned resolves :id and enforces ownership. Returns (nil, response)
// when the request has already been answered.
func (s *ProjectService) loadOwned(c *fiber.Ctx) (*model.Project, error) {
	project, err := s.repo.FindByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, repo.ErrProjectNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse{Success: false, Message: "Project not found"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{Success: false, Message: err.Error()})
	}

	if !requireOwner(c, project) {
		return nil, c.Status(fiber.StatusForbidden).JSON(model.ErrorResponse{Success: false, Message: "You do not own this project"})
	}

	return project, nil
}

func parseStepID(s string) (int, bool) {
	switch s {
	case "1", "2", "3", "4", "5":
		return int(s[0] - '0'), true
	}
	return 0, false
}

func removeAt(list *[]model.FileRef, index int) (string, bool) {
	if index < 0 || index >= len(*list) {
		return "", false
	}
	url := (*list)[index].URL
	*list = append((*list)[:index], (*list)[index+1:]...)
	return url, true
}
