package handlers

import (
	"github.com/gofiber/fiber/v2"
)

const EvaluatePath = "/api/evaluate"

func Register(app *fiber.App, evaluate *EvaluationHandler, health *HealthHandler) {
	app.Post(EvaluatePath, evaluate.HandleEvaluate)
	app.Options(EvaluatePath, evaluate.HandlePreflight)
	app.All(EvaluatePath, evaluate.HandleMethodNotAllowed)

	app.Get("/api/health", health.HandleHealth)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interview Coach API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/evaluate",
				"GET /api/health",
			},
		})
	})
}
