package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/services"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderDegraded  = "X-Evaluation-Degraded"
)

type EvaluationHandler struct {
	evaluator  services.EvaluatorService
	dailyLimit int
}

func NewEvaluationHandler(evaluator services.EvaluatorService, dailyLimit int) *EvaluationHandler {
	return &EvaluationHandler{
		evaluator:  evaluator,
		dailyLimit: dailyLimit,
	}
}

// QuotaMessage is the evaluation text returned once the daily limit is hit.
func QuotaMessage(limit int) string {
	return fmt.Sprintf("Daily demo limit reached (%d requests/day). Please try again tomorrow.", limit)
}

// HandleEvaluate handles POST /api/evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	requestID := uuid.New().String()
	c.Set(HeaderRequestID, requestID)

	ctx := services.ContextWithRequestID(c.UserContext(), requestID)
	evaluation, err := h.evaluator.Evaluate(ctx, c.Get(fiber.HeaderContentType), bytes.NewReader(c.Body()))
	if err != nil {
		if errors.Is(err, services.ErrQuotaExceeded) {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Score:      0,
				Evaluation: QuotaMessage(h.dailyLimit),
			})
		}
		return backendError(c, statusFor(err), err)
	}

	if len(evaluation.Degradations) > 0 {
		inputs := make([]string, 0, len(evaluation.Degradations))
		for _, d := range evaluation.Degradations {
			inputs = append(inputs, d.Input)
		}
		c.Set(HeaderDegraded, strings.Join(inputs, ","))
	}

	return c.Status(fiber.StatusOK).JSON(evaluation.Result)
}

// HandlePreflight answers cross-origin preflight requests with an empty 200.
func (h *EvaluationHandler) HandlePreflight(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func (h *EvaluationHandler) HandleMethodNotAllowed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAllow, "POST, OPTIONS")
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"error": "Method not allowed",
	})
}

func statusFor(err error) int {
	var (
		requestErr  *services.MalformedRequestError
		configErr   *services.ConfigurationError
		inferErr    *services.InferenceError
		responseErr *services.MalformedResponseError
	)

	switch {
	case errors.As(err, &requestErr):
		return fiber.StatusBadRequest
	case errors.As(err, &configErr):
		return fiber.StatusInternalServerError
	case errors.As(err, &inferErr), errors.As(err, &responseErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func backendError(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Score:      0,
		Evaluation: "Backend Error: " + err.Error(),
	})
}

// ErrorHandler renders errors that escape route handlers, including
// recovered panics and oversized bodies, in the evaluation error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	log.WithError(err).WithField("path", c.Path()).Error("request failed")
	return backendError(c, code, err)
}
