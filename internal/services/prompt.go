package services

import (
	"context"
	"fmt"
	"mime"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"alfredoptarigan/interview-coach/internal/goals"
	"alfredoptarigan/interview-coach/internal/models"
)

const (
	DefaultAudioMIMEType = "audio/wav"

	NoResumePlaceholder         = "No resume provided."
	UnreadableResumePlaceholder = "Resume file provided (text could not be extracted)."
)

// InlineAttachment is binary input sent alongside the instruction. The bytes
// are base64 encoded on the wire by the inference client.
type InlineAttachment struct {
	MIMEType string
	Data     []byte
}

// InferenceRequest is the assembled payload: instruction text first, then the
// optional audio attachment.
type InferenceRequest struct {
	Instruction string
	Audio       *InlineAttachment
}

type PromptOption func(*PromptBuilder)

// WithFileReader replaces the function used to read transient files.
func WithFileReader(read func(string) ([]byte, error)) PromptOption {
	return func(pb *PromptBuilder) {
		pb.readFile = read
	}
}

type PromptBuilder struct {
	catalog        *goals.Catalog
	extractor      DocumentExtractor
	extractTimeout time.Duration
	readFile       func(string) ([]byte, error)
}

func NewPromptBuilder(catalog *goals.Catalog, extractor DocumentExtractor, extractTimeout time.Duration, opts ...PromptOption) *PromptBuilder {
	if catalog == nil {
		catalog = goals.Default()
	}
	pb := &PromptBuilder{
		catalog:        catalog,
		extractor:      extractor,
		extractTimeout: extractTimeout,
		readFile:       os.ReadFile,
	}
	for _, opt := range opts {
		opt(pb)
	}
	return pb
}

// Assemble builds the inference request for a submission. Résumé extraction
// and audio loading are best effort: failures are reported as degradations
// and the request is built without that input.
func (pb *PromptBuilder) Assemble(ctx context.Context, sub *models.Submission, logger log.FieldLogger) (*InferenceRequest, []Degradation) {
	var degradations []Degradation

	if sub.AgeGroup != "" {
		if _, ok := pb.catalog.AgeGroup(sub.AgeGroup); !ok {
			logger.WithField("age_group", sub.AgeGroup).Warn("unknown age group, omitting it from the prompt")
		}
	}

	var resumeText string
	if sub.ResumeFile != nil {
		res := pb.resumeText(ctx, sub.ResumeFile)
		if text, ok := res.Value(); ok {
			resumeText = text
		} else {
			logger.WithField("reason", res.Reason()).Warn("resume text unavailable, using placeholder")
			resumeText = UnreadableResumePlaceholder
			degradations = append(degradations, Degradation{Input: string(models.FileKindResume), Reason: res.Reason()})
		}
	}

	req := &InferenceRequest{
		Instruction: pb.BuildInterviewEvaluationPrompt(sub, resumeText),
	}

	if sub.AudioFile != nil {
		res := pb.audioAttachment(sub.AudioFile)
		if audio, ok := res.Value(); ok {
			req.Audio = audio
		} else {
			logger.WithField("reason", res.Reason()).Warn("audio unreadable, continuing with text only")
			degradations = append(degradations, Degradation{Input: string(models.FileKindAudio), Reason: res.Reason()})
		}
	}

	return req, degradations
}

func (pb *PromptBuilder) resumeText(ctx context.Context, file *models.TransientFile) Result[string] {
	if pb.extractor == nil {
		return Degraded[string]("document extraction is not enabled")
	}

	data, err := pb.readFile(file.Path)
	if err != nil {
		return Degraded[string](fmt.Sprintf("failed to read document: %v", err))
	}

	return extractWithTimeout(ctx, pb.extractor, pb.extractTimeout, data, file.MIMEType, file.OriginalName)
}

func (pb *PromptBuilder) audioAttachment(file *models.TransientFile) Result[*InlineAttachment] {
	data, err := pb.readFile(file.Path)
	if err != nil {
		return Degraded[*InlineAttachment](fmt.Sprintf("failed to read audio: %v", err))
	}
	if len(data) == 0 {
		return Degraded[*InlineAttachment]("audio file is empty")
	}

	return Ok(&InlineAttachment{
		MIMEType: audioMIMEType(file.MIMEType),
		Data:     data,
	})
}

func audioMIMEType(declared string) string {
	media, _, err := mime.ParseMediaType(declared)
	if err != nil || media == "" || media == "application/octet-stream" {
		return DefaultAudioMIMEType
	}
	return media
}

// BuildInterviewEvaluationPrompt renders the instruction text. resumeText is
// the extracted document text or a placeholder, empty when no document was sent.
func (pb *PromptBuilder) BuildInterviewEvaluationPrompt(sub *models.Submission, resumeText string) string {
	goal := pb.catalog.Goal(sub.Goal)

	var preamble strings.Builder
	fmt.Fprintf(&preamble, "You are an expert interview coach for %s (%s).", goal.Label, sub.SubType)
	if goal.Focus != "" {
		fmt.Fprintf(&preamble, " This interview focuses on %s.", goal.Focus)
	}
	if age, ok := pb.catalog.AgeGroup(sub.AgeGroup); ok {
		fmt.Fprintf(&preamble, " The candidate is in the %s age group.", age.Label)
	}

	return fmt.Sprintf(`%s

RESUME/CONTEXT:
%s

USER RESPONSE:
"%s"

TASK:
1. Analyze how relevant the content of the response is to the %s position requested.
2. Evaluate delivery and speech patterns: pacing, tone, filler words, stutters.
3. Assess soft qualities: confidence, clarity, engagement, professionalism.
4. Assess additional qualities based on the context and role provided.
5. Provide a total score (0-100) and a detailed evaluation.

Return ONLY a JSON object with this structure:
%s`,
		preamble.String(), contextSection(sub.ContextText, resumeText), sub.TextResponse, goal.Label, responseSchema())
}

func contextSection(contextText, resumeText string) string {
	var parts []string
	if strings.TrimSpace(contextText) != "" {
		parts = append(parts, contextText)
	}
	if resumeText != "" {
		parts = append(parts, resumeText)
	}
	if len(parts) == 0 {
		return NoResumePlaceholder
	}
	return strings.Join(parts, "\n\n")
}

func responseSchema() string {
	var b strings.Builder
	b.WriteString("{\n  \"score\": 0-100,\n  \"evaluation\": \"string\",\n  \"metrics\": {\n")
	for i, key := range models.MetricKeys {
		fmt.Fprintf(&b, "    %q: \"string\"", key)
		if i < len(models.MetricKeys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  }\n}")
	return b.String()
}
