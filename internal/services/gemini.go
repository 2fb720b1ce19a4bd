package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// InferenceInvoker sends an assembled request to the generative service and
// returns its raw text output. Implementations make exactly one call.
type InferenceInvoker interface {
	Invoke(ctx context.Context, req *InferenceRequest) (string, error)
}

type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

// NewGeminiService builds the invoker. An empty API key is not an error here:
// the service starts and every Invoke reports ErrNotConfigured instead.
func NewGeminiService(ctx context.Context, opts GeminiOptions) (InferenceInvoker, error) {
	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	if opts.APIKey == "" {
		return &geminiService{modelName: model}, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: model,
	}, nil
}

// Invoke implements InferenceInvoker.
func (g *geminiService) Invoke(ctx context.Context, req *InferenceRequest) (string, error) {
	if g.client == nil {
		return "", &InferenceError{Err: ErrNotConfigured}
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Instruction)}
	if req.Audio != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Audio.Data, req.Audio.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", &InferenceError{Err: err}
	}
	if resp == nil {
		return "", &InferenceError{Err: errors.New("no response generated (nil response)")}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		reason := "no text content in response"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", &InferenceError{Err: errors.New(reason)}
	}

	return text, nil
}
