package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gartstein/companydir/internal/company/config"
	"github.com/gartstein/companydir/internal/company/controller"
	"github.com/gartstein/companydir/internal/company/db"
	"github.com/gartstein/companydir/internal/company/events"
	"github.com/gartstein/companydir/internal/company/handlers"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger := initLogger(cfg)
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := db.NewRepository(&db.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.GroupID != "" {
		consumer := events.NewAuditConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger)
		consumer.Start(ctx)
		defer consumer.Close()
	}

	companySvc := controller.NewCompanyService(repo, producer, logger)
	companyHandler := handlers.NewCompanyHandler(companySvc, logger, cfg.IsDevelopment())

	server := handlers.NewServer(cfg.HTTPPort, cfg.CORSOrigins, logger)
	server.RegisterRoutes(companyHandler)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap logger matching the runtime environment.
func initLogger(cfg *config.Config) *zap.Logger {
	if cfg.IsDevelopment() {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func configPath() string {
	if path := os.Getenv("COMPANYDIR_CONFIG"); path != "" {
		return path
	}
	path := filepath.Join("internal", "company", "config", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then
// shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("server stopped properly")
}
