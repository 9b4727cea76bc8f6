package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/lunahealth/backend/internal/config"
	"github.com/lunahealth/backend/internal/handlers"
	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	log := newLogger(cfg)
	log.Info("starting luna api server",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port))

	app := newApplication(cfg, log)
	router := newRouter(app)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newRouter(app *application) *gin.Engine {
	if app.cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit())

	insightsHandler := handlers.NewInsightsHandler(app.insights, app.generator)
	syncHandler := handlers.NewSyncHandler(app.collector)
	logsHandler := handlers.NewLogsHandler(app.records)
	metricsHandler := handlers.NewMetricsHandler(app.records)
	medicationsHandler := handlers.NewMedicationsHandler(app.records)
	integrationsHandler := handlers.NewIntegrationsHandler(app.integrations)
	oauthHandler := handlers.NewOAuthHandler(app.cfg.Server.AppScheme)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    app.cfg.Server.Env,
		})
	})

	// Providers redirect here before the app has a session, so this
	// route stays outside the auth group.
	router.GET("/oauth/:provider/callback", oauthHandler.Callback)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(app.supabase))
	{
		v1.GET("/insights", insightsHandler.GetInsights)
		v1.POST("/insights/refresh", middleware.RateLimitSync(), insightsHandler.RefreshInsights)
		v1.POST("/insights/generate", middleware.RateLimitSync(), insightsHandler.GenerateLLMInsights)
		v1.POST("/insights/ask", middleware.RateLimitSync(), insightsHandler.Ask)

		v1.POST("/sync/:provider", middleware.RateLimitSync(), syncHandler.Sync)

		v1.GET("/logs", logsHandler.ListLogs)
		v1.POST("/logs", logsHandler.CreateLog)
		v1.PATCH("/logs/:id", logsHandler.UpdateLog)
		v1.DELETE("/logs/:id", logsHandler.DeleteLog)

		v1.GET("/metrics", metricsHandler.ListMetrics)
		v1.POST("/metrics", metricsHandler.IngestMetrics)

		v1.GET("/medications", medicationsHandler.ListMedicationLogs)
		v1.POST("/medications", medicationsHandler.CreateMedicationLog)

		v1.GET("/integrations", integrationsHandler.ListIntegrations)
		v1.POST("/integrations/:provider/connect", integrationsHandler.ConnectIntegration)
		v1.DELETE("/integrations/:provider", integrationsHandler.DisconnectIntegration)
	}

	return router
}
