package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daybook-app/daybook/config"
	"github.com/daybook-app/daybook/handler"
	"github.com/daybook-app/daybook/logger"
	"github.com/daybook-app/daybook/middleware"
	"github.com/daybook-app/daybook/repository"
	"github.com/daybook-app/daybook/services"
	"github.com/daybook-app/daybook/usecase"
	"github.com/daybook-app/daybook/utils"
	"github.com/daybook-app/daybook/weather"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"WEATHER_API_KEY",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
}

func setupRouter(
	journalService *usecase.JournalService,
	weatherHandler *handler.WeatherHandler,
	healthHandler *handler.HealthHandler,
	serverCfg config.ServerConfig,
	uploadDir string,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())

	journal := router.Group("/journal")
	{
		journal.GET("/all", func(c *gin.Context) {
			handler.GetAllEntriesHandler(c, journalService)
		})
		journal.GET("/memories", func(c *gin.Context) {
			handler.GetMemoriesHandler(c, journalService)
		})
		journal.GET("/reminders", func(c *gin.Context) {
			handler.GetRemindersHandler(c, journalService)
		})
		journal.GET("/colors", handler.GetColorsHandler)
		journal.GET("/:date", func(c *gin.Context) {
			handler.GetEntryByDateHandler(c, journalService)
		})
		journal.POST("", middleware.RequestSizeLimiter(serverCfg.MaxUploadBytes), func(c *gin.Context) {
			handler.CreateEntryHandler(c, journalService)
		})
		journal.PUT("/entry/:index", func(c *gin.Context) {
			handler.UpdateEntryAtHandler(c, journalService)
		})
		journal.DELETE("/entry/:index", func(c *gin.Context) {
			handler.RemoveEntryAtHandler(c, journalService)
		})
		journal.PUT("/id/:id", func(c *gin.Context) {
			handler.UpdateEntryByIDHandler(c, journalService)
		})
		journal.DELETE("/id/:id", func(c *gin.Context) {
			handler.RemoveEntryByIDHandler(c, journalService)
		})
	}

	calendar := router.Group("/calendar")
	{
		calendar.GET("/week", func(c *gin.Context) {
			handler.GetWeekEntriesHandler(c, journalService)
		})
		calendar.GET("/month", func(c *gin.Context) {
			handler.GetMonthGridHandler(c, journalService, weatherHandler)
		})
	}

	router.GET("/weather/forecast", weatherHandler.GetForecastHandler)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stored photos never change once written, so let clients cache.
	uploads := router.Group("/uploads", middleware.CacheControlMiddleware(24*time.Hour))
	uploads.Static("", uploadDir)

	return router
}

func main() {
	serverCfg := config.LoadServerConfig()
	storageCfg := config.LoadStorageConfig()
	weatherCfg := config.LoadWeatherConfig()

	if err := logger.Init(logger.Config{Debug: serverCfg.Debug, LogDir: serverCfg.LogDir}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if serverCfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := repository.Open(storageCfg, config.LoadDatabaseConfig())
	if err != nil {
		logger.Fatal("opening entry store failed", "backend", storageCfg.Backend, "error", err)
	}

	attachments, err := services.NewAttachmentStore(storageCfg.UploadDir)
	if err != nil {
		logger.Fatal("preparing upload directory failed", "dir", storageCfg.UploadDir, "error", err)
	}

	journalService := &usecase.JournalService{
		Store:       store,
		Attachments: attachments,
	}

	var forecastCache *services.ForecastCache
	if weatherCfg.RedisURL != "" {
		forecastCache, err = services.NewForecastCache(weatherCfg.RedisURL, weatherCfg.CacheTTL)
		if err != nil {
			logger.Fatal("connecting forecast cache failed", "error", err)
		}
	}

	weatherHandler := handler.NewWeatherHandler(weather.NewClient(weatherCfg), forecastCache, weatherCfg.DefaultCity)
	healthHandler := handler.NewHealthHandler(journalService, storageCfg.Backend)

	router := setupRouter(journalService, weatherHandler, healthHandler, serverCfg, storageCfg.UploadDir)

	srv := &http.Server{
		Addr:    ":" + serverCfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", storageCfg.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown was forced", "error", err)
	}

	if err := store.Close(); err != nil {
		logger.Error("closing entry store failed", "error", err)
	}
	if err := forecastCache.Close(); err != nil {
		logger.Error("closing forecast cache failed", "error", err)
	}
	logger.Info("server stopped")
}
