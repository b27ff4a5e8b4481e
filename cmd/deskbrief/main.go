package main

import (
	"context"
	"log"
	"net/http"

	"github.com/hupe1980/deskbrief/config"
	"github.com/hupe1980/deskbrief/gateway"
	"github.com/hupe1980/deskbrief/httpapi"
	"github.com/hupe1980/deskbrief/knowledge"
	"github.com/hupe1980/deskbrief/logging"
	"github.com/hupe1980/deskbrief/model"
	anthropicmodel "github.com/hupe1980/deskbrief/model/anthropic"
	geminimodel "github.com/hupe1980/deskbrief/model/gemini"
	openaimodel "github.com/hupe1980/deskbrief/model/openai"
	"github.com/hupe1980/deskbrief/session"

	"github.com/anthropics/anthropic-sdk-go"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	logger := logging.New(&logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	briefing := knowledge.Compile(knowledge.Load(cfg.KnowledgeDir, logger))
	logger.Info("knowledge briefing compiled", "chars", len(briefing))

	backend, err := buildBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("error initializing model backend: %v", err)
	}
	logger.Info("model backend ready",
		"provider", backend.Info().Provider, "model", backend.Info().Name)

	store := session.NewStore(func(o *session.Options) {
		o.TTL = cfg.SessionTTL
		o.Logger = logger
	})

	gw := gateway.New(store, backend, briefing, func(o *gateway.Options) {
		o.Temperature = cfg.Temperature
		o.Logger = logger
	})

	handler := httpapi.NewServer(gw, logger)

	addr := ":" + cfg.Port
	logger.Info("deskbrief listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}

func buildBackend(ctx context.Context, cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderMock:
		return model.NewMockModel(), nil
	case config.ProviderOpenAI:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropic.Model(cfg.ModelName)
			}
			o.APIKey = cfg.APIKey
		}), nil
	default:
		return geminimodel.New(ctx, cfg.APIKey, func(o *geminimodel.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		})
	}
}
