package app

import (
	"context"
	"fmt"
	"log"

	"learn-proxy/api/internal/config"
	"learn-proxy/api/internal/learn"
	"learn-proxy/api/internal/llm"
	"learn-proxy/api/internal/llm/deepseek"
	"learn-proxy/api/internal/llm/gemini"
	"learn-proxy/api/internal/llm/ollama"
	"learn-proxy/api/internal/llm/openai"
	"learn-proxy/api/internal/store"
	"learn-proxy/api/internal/worksheet"
)

// App holds everything both binaries share.
type App struct {
	Engines    *llm.Engines
	Service    *learn.Service
	Worksheets *worksheet.Generator
	// Stats is nil when no audit database is configured.
	Stats *store.GenerationRepo

	db *store.DB
}

// BuildEngines registers every provider. Missing API keys surface as
// provider errors at call time so one bad key doesn't block the others.
func BuildEngines(cfg *config.Config) (*llm.Engines, error) {
	oll, err := ollama.New(cfg.OllamaURL, cfg.OllamaModel)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	engs := llm.NewEngines(cfg.LLMProvider).
		Register(openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), "openai").
		Register(gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel), "google").
		Register(oll).
		Register(deepseek.New(cfg.DeepseekAPIKey, cfg.DeepseekModel))
	if _, err := engs.GetEngine(""); err != nil {
		return nil, fmt.Errorf("LLM_PROVIDER: %w", err)
	}
	return engs, nil
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	engs, err := BuildEngines(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Engines: engs, Worksheets: worksheet.New(worksheet.DefaultConfig())}

	var rec learn.Recorder
	if cfg.AuditEnabled() {
		dsn := cfg.DatabaseURL
		if cfg.DatabaseType == "sqlite" || cfg.DatabaseType == "sqlite3" {
			dsn = cfg.DatabasePath
		}
		db, err := store.Open(ctx, cfg.DatabaseType, dsn)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.db = db
		a.Stats = store.NewGenerationRepo(db)
		rec = a.Stats
		log.Printf("audit log: %s", cfg.DatabaseType)
	} else {
		log.Printf("audit log: disabled")
	}

	a.Service = learn.NewService(engs, rec)
	return a, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
