package service

import (
	"errors"
	"math"
	"strings"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
	"github.com/raghupathi321/Janagraha-sub000/app/repo"
	"github.com/raghupathi321/Janagraha-sub000/helper"

	"github.com/gofiber/fiber/v2"
)

type UserService struct {
	userRepo repo.UserRepository
}

func NewUserService(userRepo repo.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GET /api/v1/users
func (s *UserService) GetAllUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	search := c.Query("search", "")
	sortBy := c.Query("sortBy", "created_at")
	order := c.Query("order", "desc")

	users, total, err := s.userRepo.FindAll(page, limit, search, sortBy, order)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to load users",
			Error:   err.Error(),
		})
	}

	var userResponses []model.UserResponse
	for _, u := range users {
		userResponses = append(userResponses, model.UserResponse{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.Role,
			School:   u.School,
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return c.JSON(model.SuccessResponse[model.PaginationData[model.UserResponse]]{
		Success: true,
		Data: model.PaginationData[model.UserResponse]{
			Items: userResponses,
			Meta: model.MetaInfo{
				Page:   page,
				Limit:  limit,
				Total:  total,
				Pages:  totalPages,
				SortBy: sortBy,
				Order:  order,
				Search: search,
			},
		},
	})
}

// POST /api/v1/users
// Admin provisioning. Signup only ever creates plain users; judge and admin
// accounts come from here.
func (s *UserService) CreateUser(c *fiber.Ctx) error {
	var req model.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: "Invalid input",
		})
	}

	if err := helper.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  helper.FormatValidationErrors(err),
		})
	}

	hashedPwd, err := helper.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to hash password",
		})
	}

	user := model.User{
		FullName:     req.FullName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPwd,
		School:       req.School,
		Role:         req.Role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(model.ErrorResponse{
				Success: false,
				Message: "Email already registered",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
			Success: false,
			Message: "Failed to create user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[model.UserResponse]{
		Success: true,
		Message: "User created",
		Data: model.UserResponse{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     user.Role,
			School:   user.School,
		},
	})
}
