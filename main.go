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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"idea-engine/config"
	"idea-engine/providers"
	"idea-engine/providers/analysis"
	"idea-engine/providers/sample"
	"idea-engine/services"
	"idea-engine/storage"
)

var (
	ideasSubmittedCounter  prometheus.Counter
	topicsCollectedCounter prometheus.Counter
	analysisProxyCounter   *prometheus.CounterVec
	topicsTrackedGauge     prometheus.Gauge
)

func init() {
	ideasSubmittedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ideas_submitted_total",
			Help: "Total number of ideas submitted through the API.",
		},
	)
	topicsCollectedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "topics_collected_total",
			Help: "Total number of new topics added by the collector.",
		},
	)
	analysisProxyCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_proxy_requests_total",
			Help: "Requests forwarded to the analysis service by method and response code.",
		},
		[]string{"method", "code"},
	)
	topicsTrackedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "topics_tracked",
			Help: "Number of topics currently stored.",
		},
	)
	prometheus.MustRegister(ideasSubmittedCounter, topicsCollectedCounter, analysisProxyCounter, topicsTrackedGauge)
}

// app bündelt die Abhängigkeiten, die Router und Cron-Jobs teilen.
type app struct {
	cfg       *config.Config
	db        *gorm.DB
	log       *zap.Logger
	topics    *services.TopicService
	ideas     *services.IdeaService
	collector *services.CollectService
	analysis  *analysis.Client
}

func newApp(cfg *config.Config, db *gorm.DB, logging *zap.Logger) (*app, error) {
	enabled, err := buildProviders(cfg, logging)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:       cfg,
		db:        db,
		log:       logging,
		topics:    services.NewTopicService(db, logging, cfg.TrendingThreshold),
		ideas:     services.NewIdeaService(db, logging),
		collector: services.NewCollectService(db, logging, enabled),
		analysis:  analysis.NewClient(cfg, logging),
	}, nil
}

func buildProviders(cfg *config.Config, logging *zap.Logger) ([]providers.Provider, error) {
	var enabled []providers.Provider
	for _, name := range cfg.Providers() {
		switch name {
		case "sample":
			enabled = append(enabled, sample.NewProvider(cfg, logging))
		default:
			logging.Warn("Unknown provider in config", zap.String("provider_name", name))
		}
	}
	if len(enabled) == 0 {
		return nil, errors.New("no valid providers enabled, check ENABLED_PROVIDERS")
	}
	return enabled, nil
}

func (a *app) router() *gin.Engine {
	router := gin.New()
	router.Use(recoveryMiddleware(a.log))
	router.Use(requestLogger(a.log))
	router.Use(corsMiddleware(a.cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupHealthRoutes(router, a.db, a.log)

	api := router.Group("/api")
	api.Use(apiKeyAuthMiddleware(a.cfg))
	setupTopicRoutes(api, a.topics, a.log)
	setupDashboardRoutes(api, a.topics, a.log)
	setupIdeaRoutes(api, a.ideas)
	setupAnalysisProxyRoutes(api, a.analysis, a.log)

	setupFrontendRoutes(router, a.cfg, a.log)
	return router
}

// collect führt alle Provider aus und aktualisiert die Metriken.
func (a *app) collect(ctx context.Context) {
	count, err := a.collector.RunAll(ctx)
	if err != nil {
		a.log.Error("Collect job failed", zap.Error(err))
	} else {
		a.log.Info("Collect job completed", zap.Int("new_topics", count))
		topicsCollectedCounter.Add(float64(count))
	}
	a.refreshTopicGauge(ctx)
}

func (a *app) refreshTopicGauge(ctx context.Context) {
	n, err := a.topics.Count(ctx)
	if err != nil {
		a.log.Warn("Failed to count topics", zap.Error(err))
		return
	}
	topicsTrackedGauge.Set(float64(n))
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.AppEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load error: %v", err)
	}

	logging, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.", zap.String("driver", cfg.DBDriver))

	if cfg.DBAutoMigrate {
		logging.Info("Running database auto-migration...")
		if err := storage.Migrate(db); err != nil {
			logging.Fatal("Auto-migration failed", zap.Error(err))
		}
	}

	a, err := newApp(cfg, db, logging)
	if err != nil {
		logging.Fatal("Setup failed", zap.Error(err))
	}

	if cfg.SeedSample {
		n, err := a.topics.Count(context.Background())
		if err != nil {
			logging.Fatal("Failed to count topics", zap.Error(err))
		}
		if n == 0 {
			logging.Info("Database is empty, seeding sample topics.")
			a.collect(context.Background())
		}
	}
	a.refreshTopicGauge(context.Background())

	// Setup Cron
	cronScheduler := cron.New()
	if cfg.CollectSchedule != "" {
		if _, err := cronScheduler.AddFunc(cfg.CollectSchedule, func() {
			logging.Info("Running scheduled collect job...")
			a.collect(context.Background())
		}); err != nil {
			logging.Fatal("Invalid COLLECT_SCHEDULE", zap.Error(err))
		}
	}
	if cfg.BackupSchedule != "" {
		s3Client, err := storage.NewS3Client(context.Background(), cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		backuper := storage.NewBackuper(db, s3Client, cfg.S3Endpoint, cfg.S3Bucket, cfg.BackupPrefix, cfg.BackupKeep, logging)
		if _, err := cronScheduler.AddFunc(cfg.BackupSchedule, func() {
			logging.Info("Running scheduled backup job...")
			if key, err := backuper.Run(context.Background()); err != nil {
				logging.Error("Backup job failed", zap.Error(err))
			} else {
				logging.Info("Backup job completed", zap.String("key", key))
			}
		}); err != nil {
			logging.Fatal("Invalid BACKUP_SCHEDULE", zap.Error(err))
		}
	}
	cronScheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           a.router(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logging.Info("Starting server", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info("Shutting down server...")

	<-cronScheduler.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", zap.Error(err))
	}
	if err := storage.Close(db); err != nil {
		logging.Error("Failed to close database", zap.Error(err))
	}
	logging.Info("Server stopped.")
}
