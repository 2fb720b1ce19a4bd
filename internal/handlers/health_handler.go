package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

type HealthHandler struct {
	admission *services.AdmissionController
}

func NewHealthHandler(admission *services.AdmissionController) *HealthHandler {
	return &HealthHandler{
		admission: admission,
	}
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	used, day := h.admission.Usage()

	return c.JSON(models.HealthResponse{
		Status: "healthy",
		Time:   time.Now().Format(time.RFC3339),
		Quota: models.QuotaStatus{
			Used:  used,
			Limit: h.admission.Limit(),
			Day:   day,
		},
	})
}
