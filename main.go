// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/cmd"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/wire"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/database"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/events"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/mailer"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/token"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"go.uber.org/zap"
)

// drainTimeout bounds the wait for in-flight emails after shutdown.
const drainTimeout = 30 * time.Second

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	// Event publishing is optional
	var publisher events.Publisher = events.NopPublisher{}
	if config.Redis.Addr != "" {
		redisPub, err := events.NewRedis(ctx, config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, events disabled", zap.Error(err))
		} else {
			publisher = redisPub
			logger.Info("Publishing events to Redis", zap.String("addr", config.Redis.Addr))
		}
	}
	defer publisher.Close()

	tokens := token.NewService(
		config.JWT.Secret,
		config.JWT.Issuer,
		time.Duration(config.JWT.AccessTTLMinutes)*time.Minute,
		time.Duration(config.JWT.RefreshTTLHours)*time.Hour,
	)

	// Wire all dependencies
	app := wire.Wiring(wire.Deps{
		Repo:   repository.NewRepository(db, logger),
		DB:     db,
		Config: config,
		Tokens: tokens,
		Mailer: mailer.New(config.Email, logger),
		Events: publisher,
	}, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := app.Drain(drainCtx); err != nil {
		logger.Warn("Stopped before all emails were sent", zap.Error(err))
	}
	logger.Info("Server stopped")
}
