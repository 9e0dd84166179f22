package main

import (
	"log"

	"github.com/raghupathi321/Janagraha-sub000/config"
	"github.com/raghupathi321/Janagraha-sub000/db"

	"github.com/raghupathi321/Janagraha-sub000/route"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadEnv()
	config.Logger()

	db.ConnectDB()

	app := config.NewApp()

	route.SetupRoutes(app, db.GetDB(), db.GetMongo())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Janagraha Civic Platform API")
	})

	port := config.Env.AppPort
	if port == "" {
		port = "3000"
	}
	log.Fatal(app.Listen(":" + port))
}
