package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/HassanAliMAli/you-trend/internal/analysis"
	"github.com/HassanAliMAli/you-trend/internal/config"
	"github.com/HassanAliMAli/you-trend/internal/handler"
	"github.com/HassanAliMAli/you-trend/internal/middleware"
	"github.com/HassanAliMAli/you-trend/internal/router"
	"github.com/HassanAliMAli/you-trend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		middleware.InitLogger("info", "youtrend-api")
		middleware.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	middleware.InitLogger(cfg.LogLevel, "youtrend-api")
	log := middleware.Logger

	build := engineBuilder(cfg)
	var patterns []analysis.TopicPattern
	if cfg.TopicPatternsFile != "" {
		patterns, err = analysis.LoadTopicPatterns(cfg.TopicPatternsFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.TopicPatternsFile).Msg("failed to load topic patterns")
		}
		log.Info().Int("patterns", len(patterns)).Str("path", cfg.TopicPatternsFile).Msg("topic patterns loaded")
	}
	engine, err := build(patterns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build analysis engine")
	}
	engines := service.NewEngineRef(engine)

	cache := service.NewCacheService(cfg.RedisURL, cfg.CacheTTL, log)
	defer cache.Close()

	handler.InitMetrics()

	app := fiber.New(fiber.Config{
		AppName:      "YouTrend API",
		ServerHeader: "YouTrend",
		BodyLimit:    16 * 1024 * 1024,
	})
	router.Setup(app, &router.Handlers{
		Trend:   handler.NewTrendHandler(service.NewTrendService(engines, cache, log)),
		Compare: handler.NewCompareHandler(service.NewCompareService(engines, cache, log)),
		Health:  handler.NewHealthHandler(engines, cache.Client()),
	}, cfg.CORSOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TopicPatternsFile != "" && cfg.PatternReloadInterval > 0 {
		worker := service.NewPatternWorker(cfg.TopicPatternsFile, cfg.PatternReloadInterval, build, engines, cache, log)
		go worker.Start(ctx)
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("YouTrend API starting")
	if err := app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: cfg.IsProduction()}); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// engineBuilder returns a constructor that applies the configured
// benchmarks and concurrency to a pattern table. nil patterns select the
// built-in table.
func engineBuilder(cfg *config.Config) service.EngineBuilder {
	return func(patterns []analysis.TopicPattern) (*analysis.Engine, error) {
		ac := analysis.DefaultConfig()
		ac.Benchmarks = analysis.Benchmarks{
			Views:           cfg.ViewsBenchmark,
			Subscribers:     cfg.SubscribersBenchmark,
			ChannelAvgViews: cfg.ChannelAvgViewsBenchmark,
		}
		ac.MaxConcurrency = cfg.AnalysisMaxConcurrency
		if patterns != nil {
			ac.Patterns = patterns
		}
		return analysis.New(ac, analysis.WithLogger(middleware.Logger.With().Str("component", "engine").Logger()))
	}
}
