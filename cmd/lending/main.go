package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/pramodthundathil/ola-backend/internal/finance/application"
	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/internal/finance/infrastructure/messaging"
	"github.com/pramodthundathil/ola-backend/internal/finance/infrastructure/persistence/mysql"
	financehttp "github.com/pramodthundathil/ola-backend/internal/finance/interfaces/http"
	"github.com/pramodthundathil/ola-backend/pkg/cache"
	"github.com/pramodthundathil/ola-backend/pkg/config"
	"github.com/pramodthundathil/ola-backend/pkg/db"
	"github.com/pramodthundathil/ola-backend/pkg/logger"
	"github.com/pramodthundathil/ola-backend/pkg/metrics"
	"github.com/pramodthundathil/ola-backend/pkg/middleware"
	"github.com/pramodthundathil/ola-backend/pkg/mq"
)

var configPath = flag.String("config", "configs/lending/config.toml", "config file path")

func main() {
	flag.Parse()
	ctx := context.Background()

	// 1. Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	logger.Info(ctx, "Starting service", "service", cfg.ServiceName, "environment", cfg.Environment)

	// 3. Metrics
	m := metrics.New(cfg.ServiceName)
	if err := m.Register(); err != nil {
		logger.Error(ctx, "Failed to register metrics", "error", err)
		os.Exit(1)
	}

	// 4. Database
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Error(ctx, "Failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	database.ObserveQueries(func(elapsed time.Duration) {
		m.DBQueriesTotal.Inc()
		m.DBQueryDuration.Observe(elapsed.Seconds())
	})

	if cfg.Environment == "dev" {
		if err := mysql.AutoMigrate(database.DB); err != nil {
			logger.Error(ctx, "Failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// 5. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Error(ctx, "Failed to connect Redis", "error", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	// 6. Kafka。没有配置 broker 时事件发布退化为空实现
	var publisher domain.EventPublisher = messaging.NoopEventPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Error(ctx, "Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Finance.DecisionTopic, cfg.Finance.PaymentTopic)
	} else {
		logger.Warn(ctx, "Kafka brokers not configured, event publishing disabled")
	}

	// 7. Application
	uow := mysql.NewUnitOfWork(database)
	thresholds := domain.TierThresholds{
		TierAMin: cfg.Finance.TierAMinScore,
		TierBMin: cfg.Finance.TierBMinScore,
		TierCMin: cfg.Finance.TierCMinScore,
	}

	decisionService := application.NewDecisionService(uow, publisher, m, thresholds)
	scheduleService := application.NewScheduleService(uow, m)
	paymentService := application.NewPaymentService(uow, publisher, m)
	analyticsService := application.NewAnalyticsService(
		mysql.NewAnalyticsRepository(database.DB),
		redisCache,
		m,
		time.Duration(cfg.Finance.AnalyticsCacheTTL)*time.Second,
	)

	// 8. Interfaces
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinLoggingMiddleware(m))
	router.Use(middleware.GinCORSMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	handler := financehttp.NewFinanceHandler(decisionService, scheduleService, paymentService, analyticsService)
	handler.RegisterRoutes(router)

	// 9. Start
	g, gctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info(gctx, "Shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Service exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Service stopped gracefully")
}
