package route

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
	"github.com/raghupathi321/Janagraha-sub000/app/repo"
	"github.com/raghupathi321/Janagraha-sub000/app/service"
	"github.com/raghupathi321/Janagraha-sub000/middleware"
)

func SetupRoutes(app *fiber.App, pgDB *gorm.DB, mongoDB *mongo.Database) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	userRepo := repo.NewUserRepo(pgDB)
	projectRepo := repo.NewProjectRepo(mongoDB)
	evaluationRepo := repo.NewEvaluationRepo(mongoDB)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo)
	evaluationService := service.NewEvaluationService(evaluationRepo, projectRepo, userRepo)

	auth := v1.Group("/auth")

	auth.Post("/signup", authService.Signup)
	auth.Post("/login", authService.Login)
	auth.Post("/refresh", authService.Refresh)
	auth.Post("/logout", authService.Logout)

	protected := v1.Group("", middleware.AuthRequired())

	protected.Get("/auth/profile", authService.Profile)

	users := protected.Group("/users", middleware.RolesRequired(model.RoleAdmin))
	users.Get("/", userService.GetAllUsers)
	users.Post("/", userService.CreateUser)

	projects := protected.Group("/projects")
	projects.Get("/stats", middleware.RolesRequired(model.RoleAdmin), projectService.Stats)
	projects.Get("/me", projectService.GetMine)
	projects.Post("/", projectService.Create)
	projects.Put("/:id", projectService.Update)
	projects.Post("/:id/upload", projectService.Upload)
	projects.Delete("/:id/files", projectService.DeleteFile)
	projects.Post("/:id/submit", projectService.Submit)

	evaluations := protected.Group("/evaluations", middleware.RolesRequired(model.RoleJudge, model.RoleAdmin))
	evaluations.Post("/", evaluationService.Create)
	evaluations.Get("/project/:projectId", evaluationService.ListForProject)

	app.Static("/uploads", "./uploads")
}
