package services

import (
	"context"
	"io"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"alfredoptarigan/interview-coach/internal/models"
)

type EvaluatorService interface {
	Evaluate(ctx context.Context, contentType string, body io.Reader) (*Evaluation, error)
}

// Evaluation is a successful pipeline run. Degradations lists inputs that
// were dropped on the way without failing the run.
type Evaluation struct {
	RequestID    string
	Result       *models.EvaluationResult
	Degradations []Degradation
}

type evaluatorService struct {
	admission *AdmissionController
	ingestor  *Ingestor
	prompts   *PromptBuilder
	invoker   InferenceInvoker
}

func NewEvaluatorService(
	admission *AdmissionController,
	ingestor *Ingestor,
	prompts *PromptBuilder,
	invoker InferenceInvoker,
) EvaluatorService {
	return &evaluatorService{
		admission: admission,
		ingestor:  ingestor,
		prompts:   prompts,
		invoker:   invoker,
	}
}

// Evaluate runs admission, decoding, assembly, inference and normalization.
// Transient files created while decoding are removed on every exit path.
func (e *evaluatorService) Evaluate(ctx context.Context, contentType string, body io.Reader) (*Evaluation, error) {
	requestID := RequestIDFromContext(ctx)
	logger := log.WithField("request_id", requestID)

	if !e.admission.TryAdmit() {
		logger.Warn("daily limit reached, rejecting evaluation")
		return nil, ErrQuotaExceeded
	}

	reaper := NewReaper(logger)
	defer reaper.Release()

	submission, err := e.ingestor.Decode(contentType, body, reaper)
	if err != nil {
		logger.WithError(err).Warn("failed to decode submission")
		return nil, err
	}

	logger = logger.WithFields(log.Fields{
		"goal":      submission.Goal,
		"sub_type":  submission.SubType,
		"has_text":  submission.TextResponse != "",
		"has_audio": submission.AudioFile != nil,
		"has_doc":   submission.ResumeFile != nil,
	})

	if !submission.Eligible() {
		logger.Warn("submission has neither text nor audio")
		return nil, malformedRequest("submission must include text_input or audio_response", nil)
	}

	req, degradations := e.prompts.Assemble(ctx, submission, logger)
	logger.WithField("prompt_length", len(req.Instruction)).Debug("inference request assembled")

	raw, err := e.invoker.Invoke(ctx, req)
	if err != nil {
		logger.WithError(err).Error("inference call failed")
		return nil, err
	}
	logger.WithField("response_length", len(raw)).Debug("inference response received")

	result, err := NormalizeResponse(raw)
	if err != nil {
		logger.WithError(err).Error("failed to normalize inference response")
		return nil, err
	}

	logger.WithField("score", result.Score).Info("evaluation completed")

	return &Evaluation{
		RequestID:    requestID,
		Result:       result,
		Degradations: degradations,
	}, nil
}

type requestIDKey struct{}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored in ctx, or a fresh one.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}
