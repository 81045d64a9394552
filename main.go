package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetsync/config"
	"meetsync/handlers"
	"meetsync/routes"
	"meetsync/services/availability"
	"meetsync/services/calendar"
	"meetsync/services/notification"
	"meetsync/services/submission"
	"meetsync/services/timegrid"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		utils.GetLogger().Fatal("main: failed to load config", zap.Error(err))
	}
	cfg := &config.AppConfig

	if err := utils.InitializeLogger(cfg.Env, cfg.LogLevel); err != nil {
		utils.GetLogger().Fatal("main: failed to initialize logger", zap.Error(err))
	}
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	grid, err := timegrid.New(cfg.GridDayStartMinutes, cfg.GridSlotMinutes)
	if err != nil {
		logger.Fatal("main: invalid grid", zap.Error(err))
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("main: invalid calendar timezone", zap.Error(err))
	}

	// services.
	bus := notification.NewDefaultBus(logger.Named("bus"))
	store, err := availability.NewStore(grid, bus, logger.Named("store"), cfg.DefaultMeetingLength)
	if err != nil {
		logger.Fatal("main: failed to create availability store", zap.Error(err))
	}

	solver, err := submission.NewHTTPSolverClient(cfg.SolverURL, cfg.SolverTimeout(), logger.Named("solver"))
	if err != nil {
		logger.Fatal("main: failed to create solver client", zap.Error(err))
	}

	var (
		cache  submission.SuggestionCache
		pinger utils.Pinger
	)
	if cfg.CacheEnabled() {
		client, err := utils.NewCacheClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Warn("main: suggestion cache unavailable, continuing without it", zap.Error(err))
		} else {
			defer client.Close()
			cache = submission.NewRedisSuggestionCache(client, cfg.SolverCacheTTL())
			pinger = client
		}
	}

	submissionService, err := submission.NewDefaultSubmissionService(store, solver, cache, cfg.SolverTopK, logger.Named("submission"))
	if err != nil {
		logger.Fatal("main: failed to create submission service", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitor := utils.NewHealthMonitor(pinger)
	if err := monitor.Start(ctx, cfg.HealthCheckSchedule); err != nil {
		logger.Fatal("main: failed to start health monitor", zap.Error(err))
	}

	hub := handlers.NewEventsHub(bus, store, cfg.AllowedOrigins, logger.Named("events"))
	defer hub.Close()

	// Assemble the handler bundle.
	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAvailabilityHandler(store, grid, calendar.NewImporter(grid, loc, logger.Named("calendar"))),
		handlers.NewTransferHandler(store),
		handlers.NewSubmissionHandler(submissionService, grid.DayStart),
		hub,
		handlers.NewHealthHandler(monitor),
	)

	router := gin.New()
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		AllowedOrigins:    cfg.AllowedOrigins,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("main: server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
