package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storyverse/rewards-api/internal/config"
	"github.com/storyverse/rewards-api/internal/dailyreward"
	"github.com/storyverse/rewards-api/internal/handler"
	"github.com/storyverse/rewards-api/internal/leveling"
	"github.com/storyverse/rewards-api/internal/repository"
	"github.com/storyverse/rewards-api/internal/service"
	apivalidator "github.com/storyverse/rewards-api/internal/validator"
	"github.com/storyverse/rewards-api/pkg/auth"
	"github.com/storyverse/rewards-api/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	levelCfg := leveling.Config{
		BaseExpPerPage:      cfg.Leveling.BaseExpPerPage,
		BaseExpPerCoin:      cfg.Leveling.BaseExpPerCoin,
		RateReductionFactor: cfg.Leveling.RateReductionFactor,
	}
	if err := levelCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid leveling configuration")
	}

	rewardLoc, err := cfg.Reward.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid reward configuration")
	}

	ctx := context.Background()

	// Initialize database pool with retry, migrating the schema when enabled
	pool, err := database.NewPool(ctx, database.PoolOptions{
		DSN:          cfg.DB.DSN(),
		MaxRetries:   cfg.DB.MaxRetries,
		RetryBackoff: cfg.DB.RetryBackoff,
		AutoMigrate:  cfg.DB.AutoMigrate,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	app := fiber.New(fiber.Config{
		AppName:      "StoryVerse Rewards API",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit
	})

	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	validate := apivalidator.New()
	calc := leveling.NewCalculator(levelCfg)
	schedule := dailyreward.NewSchedule(dailyreward.DefaultSchedule, rewardLoc)
	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTTL)

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	giftCodeRepo := repository.NewGiftCodeRepository(pool)
	usageRepo := repository.NewGiftCodeUsageRepository(pool)
	voucherRepo := repository.NewVoucherRepository(pool)

	// Services
	progressService := service.NewProgressService(pool, userRepo, calc, schedule)
	giftCodeService := service.NewGiftCodeService(pool, service.GiftCodeDeps{
		GiftCodes: giftCodeRepo,
		Usages:    usageRepo,
		Users:     userRepo,
		Vouchers:  voucherRepo,
	}, calc)
	voucherService := service.NewVoucherService(voucherRepo)

	registerRoutes(app, routes{
		health:   handler.NewHealthHandler(pool),
		progress: handler.NewProgressHandler(progressService, validate),
		giftCode: handler.NewGiftCodeHandler(giftCodeService, validate),
		voucher:  handler.NewVoucherHandler(voucherService, validate),
		auth:     tokens,
	})

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("reward_timezone", rewardLoc.String()).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "rewards-api").Logger()
	}
}
