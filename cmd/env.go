package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/jstiltner/document-understanding/internal/catalog"
	"github.com/jstiltner/document-understanding/internal/extract"
	"github.com/jstiltner/document-understanding/internal/feedback"
	"github.com/jstiltner/document-understanding/internal/llm"
	"github.com/jstiltner/document-understanding/internal/ocr"
	"github.com/jstiltner/document-understanding/internal/pipeline"
	"github.com/jstiltner/document-understanding/internal/store"
)

// env bundles the wired subsystems shared by the commands.
type env struct {
	Store    store.Store
	Catalog  *catalog.Service
	Registry *llm.Registry
	Pipeline *pipeline.Pipeline
	Recorder *feedback.Recorder
}

func (e *env) Close() {
	_ = e.Store.Close()
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "docpipe.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initRegistry() *llm.Registry {
	registry := llm.NewRegistry()
	if cfg.LLM.AnthropicKey != "" {
		registry.Register("anthropic",
			llm.NewAnthropic(cfg.LLM.AnthropicKey, cfg.LLM.RequestsPerSecond),
			splitModels(cfg.LLM.AnthropicModels))
	}
	if cfg.LLM.OpenAIKey != "" {
		registry.Register("openai",
			llm.NewOpenAI(cfg.LLM.OpenAIKey,
				llm.WithOpenAIBaseURL(cfg.LLM.OpenAIBaseURL),
				llm.WithOpenAIRateLimit(cfg.LLM.RequestsPerSecond)),
			splitModels(cfg.LLM.OpenAIModels))
	}
	return registry
}

func splitModels(csv string) []string {
	var models []string
	for _, m := range strings.Split(csv, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}

// initEnv wires the store, catalog, LLM registry, pipeline, and feedback
// recorder, running migrations and seeding the default catalog if empty.
func initEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	catalogSvc := catalog.NewService(st)
	if _, err := catalogSvc.Bootstrap(ctx); err != nil {
		st.Close()
		return nil, err
	}

	engine, err := ocr.NewEngine(ocr.Options{
		Provider:          cfg.OCR.Provider,
		PdfToTextPath:     cfg.OCR.PdfToTextPath,
		MistralAPIKey:     cfg.OCR.MistralKey,
		MistralModel:      cfg.OCR.MistralModel,
		MistralConfidence: cfg.OCR.MistralConfidence,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	registry := initRegistry()
	extractor := extract.NewExtractor(registry, cfg.LLM.DefaultProvider, cfg.LLM.DefaultModel, extract.GateConfig{
		MinConfidence:     cfg.Review.MinConfidenceThreshold,
		RequiredThreshold: cfg.Review.RequiredFieldsThreshold,
	})

	pipe := pipeline.New(st, engine, extractor, pipeline.Options{
		SoftTimeout: cfg.Pipeline.SoftTimeout,
		HardTimeout: cfg.Pipeline.HardTimeout,
	})

	return &env{
		Store:    st,
		Catalog:  catalogSvc,
		Registry: registry,
		Pipeline: pipe,
		Recorder: feedback.NewRecorder(st),
	}, nil
}
