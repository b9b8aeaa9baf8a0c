package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-theater/cmd"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/usecase"
	"movie-theater/internal/wire"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/database"
	"movie-theater/pkg/messaging"
	"movie-theater/pkg/payment"
	"movie-theater/pkg/seed"
	"movie-theater/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionCleanupInterval = time.Hour

func main() {
	config, err := utils.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, config.Database, logger, config.App.Debug)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected successfully")

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	repos := repository.NewRepository(db, logger)

	deps, limiter, closeDeps := initDependencies(ctx, config, logger)
	defer closeDeps()

	if err := seedData(ctx, repos, config, logger); err != nil {
		logger.Fatal("Failed to seed data", zap.Error(err))
	}

	go cleanSessions(ctx, repos.Session, logger)

	app := wire.Wiring(repos, deps, limiter, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

// initDependencies connects redis and kafka when configured and falls back
// to in-process stand-ins otherwise.
func initDependencies(ctx context.Context, config *utils.Config, logger *zap.Logger) (usecase.Dependencies, cache.Limiter, func()) {
	deps := usecase.Dependencies{
		Cache:     cache.NewNoopService(),
		Holds:     cache.NewNoopHoldStore(),
		Publisher: messaging.NewLogPublisher(logger),
		Payments:  payment.NewSimulatedProvider(),
	}
	limiter := cache.NewUnlimited()

	var redisClient *redis.Client
	if config.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache and seat holds", zap.Error(err))
		} else {
			redisClient = client
			deps.Cache = cache.NewService(client, logger)
			deps.Holds = cache.NewHoldStore(client)
			if config.RateLimit.Enabled {
				limiter = cache.NewLimiter(client, config.RateLimit.Requests, config.RateLimit.Window())
			}
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		}
	}

	if len(config.Kafka.Brokers) > 0 {
		publisher, err := messaging.NewKafkaPublisher(config.Kafka, logger)
		if err != nil {
			logger.Warn("Kafka unavailable, events will only be logged", zap.Error(err))
		} else {
			deps.Publisher = publisher
			logger.Info("Kafka producer ready",
				zap.Strings("brokers", config.Kafka.Brokers),
				zap.String("topic", config.Kafka.Topic))
		}
	}

	closeAll := func() {
		if err := deps.Publisher.Close(); err != nil {
			logger.Warn("Failed to close publisher", zap.Error(err))
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}
	}

	return deps, limiter, closeAll
}

func seedData(ctx context.Context, repos *repository.Repository, config *utils.Config, logger *zap.Logger) error {
	data, err := seed.Default()
	if err != nil {
		return err
	}

	seeder := seed.NewSeeder(repos, logger)
	if err := seeder.PaymentMethods(ctx, data); err != nil {
		return err
	}
	if err := seeder.AdminAccount(ctx, seed.Admin{
		Email:    config.App.AdminEmail,
		Password: config.App.AdminPassword,
	}); err != nil {
		return err
	}
	if !config.App.Seed {
		return nil
	}
	return seeder.Catalog(ctx, data)
}

// sessionCleaner is the part of the session repository the janitor uses.
type sessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

func cleanSessions(ctx context.Context, sessions sessionCleaner, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Failed to clean expired sessions", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", removed))
			}
		}
	}
}
