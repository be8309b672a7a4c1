package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Matheuslarroque/pesquisador-junior/config"
	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
	"github.com/Matheuslarroque/pesquisador-junior/internal/selection"
	"github.com/Matheuslarroque/pesquisador-junior/logger"
	"github.com/Matheuslarroque/pesquisador-junior/services/cache"
	"github.com/Matheuslarroque/pesquisador-junior/services/copywriter"
	"github.com/Matheuslarroque/pesquisador-junior/services/publisher"
	"github.com/Matheuslarroque/pesquisador-junior/services/sink"
	"github.com/Matheuslarroque/pesquisador-junior/services/state"
)

// rateLimitKey is the shared cache key for the marketplace block window
const rateLimitKey = "marketplace_rate_limited"

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Int("total_days", cfg.TotalDays).
		Int("per_day", cfg.PerDay).
		Msg("Starting daily selection")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn().Str("timezone", cfg.Timezone).Err(err).Msg("Unknown timezone, falling back to UTC")
		loc = time.UTC
	}
	createdAt := time.Now().In(loc).Format("2006-01-02 15:04:05")

	// Initialize services
	services := initializeServices(ctx, &cfg)
	defer services.Cleanup()

	harvester := scraper.NewSearchHarvester(scraper.HarvesterConfig{
		BaseURL:   cfg.SearchBaseURL,
		Delay:     cfg.FetchDelay,
		CacheKey:  rateLimitKey,
		BlockTime: cfg.BlockTime,
	}, services.Cache)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, harvester.Metrics)
	}

	store := state.NewFileStore(cfg.StatePath)
	st, err := store.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load selection state")
	}

	orchestrator := selection.NewOrchestrator(harvester, selection.Options{
		Categories:  cfg.Categories,
		TotalDays:   cfg.TotalDays,
		PerDay:      cfg.PerDay,
		SoldMin:     cfg.SoldMin,
		RatingMin:   cfg.RatingMin,
		SearchLimit: cfg.SearchLimit,
	})

	picks, updated, err := orchestrator.RunSelection(st)
	if err != nil {
		if errors.Is(err, selection.ErrCompleted) {
			log.Info().Int("total_days", cfg.TotalDays).Msg("Projeto finalizado. Todos os dias já foram completados.")
			return
		}
		log.Fatal().Err(err).Msg("Daily selection failed")
	}

	rows := make([]sink.Row, 0, len(picks))
	for _, pick := range picks {
		content, err := services.Copywriter.Generate(ctx, pick)
		if err != nil {
			log.Fatal().Err(err).Str("title", pick.Title).Msg("Failed to generate copy")
		}

		rows = append(rows, sink.Row{
			DayIndex:  updated.DayIndex,
			Product:   pick,
			CTA:       copywriter.ExtractCTA(content),
			Content:   content,
			CreatedAt: createdAt,
		})
	}

	publishPicks(services.Publisher, rows)

	var out sink.Sink
	if cfg.UseSheet {
		out = sink.NewSheetWriter(cfg.SheetPath)
	} else {
		out = sink.NewTextWriter(cfg.OutputDir)
	}

	dest, err := out.Write(rows)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write picks")
	}

	// State is saved last so a failed run can be retried without losing a day
	if err := store.Save(updated); err != nil {
		log.Fatal().Err(err).Msg("Failed to persist selection state")
	}

	log.Info().
		Int("day", updated.DayIndex).
		Int("picks", len(rows)).
		Str("destination", dest).
		Msg("Daily selection complete")
}

// Services holds the optional external integrations
type Services struct {
	Cache      cache.CacheService
	Publisher  publisher.Publisher
	Copywriter copywriter.Generator
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices wires the integrations that are configured; the pipeline
// runs without any of them.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	if cfg.OpenAIAPIKey != "" {
		services.Copywriter = copywriter.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		logger.Info("Using OpenAI copywriter (model: %s)", cfg.OpenAIModel)
	} else {
		services.Copywriter = copywriter.NewTemplateGenerator()
		logger.Warn("OPENAI_API_KEY not set, using template copywriter")
	}

	return services
}

// publishPicks pushes every pick to the stream publisher when one is
// configured. Publish failures are logged and skipped; the sheet and the
// state file remain the source of truth.
func publishPicks(pub publisher.Publisher, rows []sink.Row) {
	if pub == nil {
		return
	}

	for _, row := range rows {
		payload, err := json.Marshal(row.Product)
		if err != nil {
			logger.Error("Failed to encode pick %q: %v", row.Product.Title, err)
			continue
		}
		if err := pub.Publish("pick", payload); err != nil {
			logger.Error("Failed to publish pick %q: %v", row.Product.Title, err)
		}
	}

	if err := pub.TrimStreams(); err != nil {
		logger.Error("Failed to trim streams: %v", err)
	}
}

func serveMetrics(addr string, metrics *scraper.Metrics) {
	handler := promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	logger.Info("Metrics server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped: %v", err)
	}
}
