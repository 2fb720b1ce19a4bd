package bootstrap

import (
	"context"
	"fmt"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/goals"
	"alfredoptarigan/interview-coach/internal/services"
)

// App holds the wired evaluation pipeline and the pieces handlers need.
type App struct {
	Config    *config.Config
	Catalog   *goals.Catalog
	Admission *services.AdmissionController
	Evaluator services.EvaluatorService
}

// Build wires the pipeline from configuration. A missing Gemini key is not
// an error; it surfaces per request instead.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	catalog, err := goals.Load(cfg.Goals.File)
	if err != nil {
		return nil, err
	}

	storage := services.NewTransientStorage(cfg.Storage.TempDir)
	if err := storage.EnsureDir(); err != nil {
		return nil, err
	}

	invoker, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize inference service: %w", err)
	}

	admission := services.NewAdmissionController(&services.QuotaState{}, cfg.Quota.DailyLimit, nil)
	ingestor := services.NewIngestor(storage, cfg.Storage.MaxPartSize)
	prompts := services.NewPromptBuilder(catalog, documentExtractor(cfg.Extract), cfg.Extract.Timeout)

	return &App{
		Config:    cfg,
		Catalog:   catalog,
		Admission: admission,
		Evaluator: services.NewEvaluatorService(admission, ingestor, prompts, invoker),
	}, nil
}

// documentExtractor is the résumé text collaborator handed to the prompt
// builder, or nil when extraction is switched off.
func documentExtractor(cfg config.ExtractConfig) services.DocumentExtractor {
	if !cfg.Enabled {
		return nil
	}
	return services.NewDocumentExtractor()
}
