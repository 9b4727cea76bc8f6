package main

import (
	"github.com/redis/go-redis/v9"

	"github.com/lunahealth/backend/internal/aggregator"
	"github.com/lunahealth/backend/internal/analysis"
	"github.com/lunahealth/backend/internal/collector"
	"github.com/lunahealth/backend/internal/config"
	"github.com/lunahealth/backend/internal/insights"
	"github.com/lunahealth/backend/internal/llm"
	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/providers/fitbit"
	"github.com/lunahealth/backend/internal/providers/googlecal"
	"github.com/lunahealth/backend/internal/providers/weather"
	"github.com/lunahealth/backend/internal/repository"
	"github.com/lunahealth/backend/internal/service"
	"github.com/lunahealth/backend/pkg/supabase"
)

// application holds every wired component so both the serve and sync
// commands can share one construction path.
type application struct {
	cfg          *config.Config
	log          logger.Logger
	supabase     *supabase.Client
	collector    *collector.Service
	insights     *insights.Service
	generator    *llm.Generator
	records      service.RecordsService
	integrations service.IntegrationsService
}

func newLogger(cfg *config.Config) logger.Logger {
	log := logger.New(logger.Config{
		Level:   logger.ParseLevel(cfg.Logger.Level),
		Backend: cfg.Logger.Backend,
		Format:  cfg.Logger.Format,
	})
	logger.SetDefault(log)
	return log
}

func newApplication(cfg *config.Config, log logger.Logger) *application {
	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)

	metricRepo := repository.NewMetricRepository(supabaseClient)
	logRepo := repository.NewLogRepository(supabaseClient)
	foodRepo := repository.NewFoodRepository(supabaseClient)
	calendarRepo := repository.NewCalendarRepository(supabaseClient)
	weatherRepo := repository.NewWeatherRepository(supabaseClient)
	medicationRepo := repository.NewMedicationRepository(supabaseClient)
	integrationRepo := repository.NewIntegrationRepository(supabaseClient)
	insightRepo := repository.NewInsightRepository(supabaseClient)
	profileRepo := repository.NewProfileRepository(supabaseClient)

	fitbitClient := fitbit.NewClient(cfg.Fitbit.BaseURL, cfg.Fitbit.TokenURL, cfg.Fitbit.ClientID, cfg.Fitbit.ClientSecret)
	calendarClient := googlecal.NewClient(cfg.Google.BaseURL, cfg.Google.TokenURL, cfg.Google.ClientID, cfg.Google.ClientSecret)
	weatherClient := weather.NewClient(cfg.Weather.BaseURL)

	collectorService := collector.NewService(
		fitbitClient,
		calendarClient,
		weatherClient,
		metricRepo,
		foodRepo,
		calendarRepo,
		weatherRepo,
		integrationRepo,
		profileRepo,
		log,
	)

	aggregatorService := aggregator.NewService(
		metricRepo,
		logRepo,
		foodRepo,
		calendarRepo,
		weatherRepo,
		medicationRepo,
		profileRepo,
		log,
	)

	engine := analysis.NewEngine(log)

	var runStates insights.RunStateStore
	if cfg.Redis.Addr != "" {
		runStates = insights.NewRedisRunStateStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	} else {
		log.Warn("REDIS_ADDR not set, insight run state is in-memory only")
		runStates = insights.NewMemoryRunStateStore()
	}

	insightService := insights.NewService(aggregatorService, engine, insightRepo, runStates, cfg.Insights.Frequency, log)

	generator := llm.NewGenerator(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.StrictParse,
		insightRepo,
		metricRepo,
		logRepo,
		calendarRepo,
		log,
	)

	return &application{
		cfg:          cfg,
		log:          log,
		supabase:     supabaseClient,
		collector:    collectorService,
		insights:     insightService,
		generator:    generator,
		records:      service.NewRecordsService(logRepo, medicationRepo, metricRepo),
		integrations: service.NewIntegrationsService(integrationRepo),
	}
}
