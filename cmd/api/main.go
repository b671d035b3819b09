package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guest-intent-engine/config"
	"guest-intent-engine/internal/detect"
	"guest-intent-engine/internal/emergency"
	"guest-intent-engine/internal/httpserver"
	"guest-intent-engine/internal/language"
	"guest-intent-engine/internal/matcher"
	"guest-intent-engine/internal/model"
	"guest-intent-engine/internal/semantic"
	"guest-intent-engine/pkg/llmprovider"
	"guest-intent-engine/pkg/log"
	"guest-intent-engine/pkg/ratelimit"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Guest Intent Engine...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Provider chain + rate-limit bookkeeping
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize providers: ", err)
		return
	}
	for _, p := range providers {
		logger.Infof(ctx, "Provider ready: %s (%s, priority %d)", p.Name(), p.Model(), p.Priority())
	}

	limiter := ratelimit.NewManager(ratelimit.Config{
		BaseDelay:         parseDuration(cfg.RateLimit.BaseDelay, time.Second),
		MaxDelay:          parseDuration(cfg.RateLimit.MaxDelay, 5*time.Minute),
		ResetSuccessCount: cfg.RateLimit.ResetSuccessCount,
		NotifyAfterErrors: cfg.RateLimit.NotifyAfterErrors,
	})

	llmManager := llmprovider.NewManager(providers, limiter, logger,
		parseDuration(cfg.LLM.ChatTimeout, 15*time.Second))

	// 4. Cascade tiers
	keywordIntents := make([]model.KeywordIntent, 0, len(cfg.Intents.Keywords))
	for _, ks := range cfg.Intents.Keywords {
		keywordIntents = append(keywordIntents, model.KeywordIntent{
			Intent:   ks.Intent,
			Language: model.Language(ks.Language),
			Keywords: ks.Keywords,
		})
	}

	var semanticTier detect.SemanticClassifier
	if cfg.Detection.Tier3.Enabled && cfg.Semantic.QdrantURL != "" {
		classifier, semErr := semantic.New(ctx, cfg.Semantic, logger)
		if semErr != nil {
			logger.Warnf(ctx, "Semantic tier not available (optional): %v", semErr)
		} else {
			seedExamples(ctx, classifier, cfg, logger)
			semanticTier = classifier
		}
	}

	detector := detect.New(detect.Deps{
		Config:         cfg.Detection,
		Matcher:        matcher.New(keywordIntents),
		Language:       language.NewRouter(cfg.Language.MinLength),
		LLM:            llmManager,
		Emergency:      emergency.New(),
		Semantic:       semanticTier,
		RoutingIntents: cfg.RoutingIntents(),
		Logger:         logger,
	})

	// 5. HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		Detector:        detector,
		LLM:             llmManager,
		RateLimitPerMin: cfg.API.RateLimitPerMin,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 6. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

func seedExamples(ctx context.Context, classifier *semantic.Classifier, cfg *config.Config, logger log.Logger) {
	var examples []semantic.Example
	for _, set := range cfg.Intents.Examples {
		for _, text := range set.Texts {
			examples = append(examples, semantic.Example{
				Intent:   set.Intent,
				Text:     text,
				Language: set.Language,
			})
		}
	}
	if err := classifier.Seed(ctx, examples); err != nil {
		logger.Warnf(ctx, "Failed to seed intent examples: %v", err)
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
