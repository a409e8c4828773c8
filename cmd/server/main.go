// @title          Engineer Roster API
// @version        1.0
// @description    Users register, authenticate with bearer tokens and manage engineer records.
// @BasePath       /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/fieldcrew/engineer-roster/internal/api"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
	"github.com/fieldcrew/engineer-roster/internal/core/service"
	"github.com/fieldcrew/engineer-roster/internal/infrastructure/db/memory"
	"github.com/fieldcrew/engineer-roster/internal/infrastructure/db/mongo"
	"github.com/fieldcrew/engineer-roster/internal/infrastructure/db/redis"
	"github.com/fieldcrew/engineer-roster/internal/infrastructure/queue"
	"github.com/fieldcrew/engineer-roster/internal/pkg/config"
	"github.com/fieldcrew/engineer-roster/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users     ports.UserRepository
	engineers ports.EngineerRepository
	activity  ports.ActivityRepository
}

func main() {
	// A missing .env is fine: the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "engineer-roster",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var (
		repos repositories
		db    *mongodriver.Database
	)
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		repos = repositories{
			users:     memory.NewUserRepository(),
			engineers: memory.NewEngineerRepository(),
			activity:  memory.NewActivityRepository(),
		}
	default:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()
		if err := mongo.Bootstrap(ctx, database); err != nil {
			log.Fatal().Err(err).Msg("mongo bootstrap failed")
		}
		db = database
		repos = repositories{
			users:     mongo.NewUserRepository(database),
			engineers: mongo.NewEngineerRepository(database),
			activity:  mongo.NewActivityRepository(database),
		}
	}

	// --- Idempotency (optional) ---
	var (
		rdb      *goredis.Client
		engineer []service.EngineerOption
	)
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer client.Close()
		rdb = client
		engineer = append(engineer, service.WithIdempotency(redis.NewIdempotencyStore(client)))
	} else {
		log.Info().Msg("REDIS_ADDR not set, idempotent creates disabled")
	}

	// --- Activity trail ---
	scope := domain.ParseListScope(cfg.EngineerScope)
	activityService := service.NewActivityService(repos.activity, scope, log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activityService, log)
	dispatcher.Start(workerCtx)

	engineer = append(engineer, service.WithScope(scope), service.WithActivity(dispatcher))

	// --- HTTP ---
	e, err := api.NewRouter(api.Dependencies{
		AuthService:     service.NewAuthService(repos.users, cfg.JWTSecret, cfg.TokenTTL, log),
		EngineerService: service.NewEngineerService(repos.engineers, repos.users, log, engineer...),
		ActivityService: activityService,
		Mongo:           db,
		Redis:           rdb,
		Logger:          log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Str("scope", string(scope)).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdown(e.Shutdown, stopWorkers, dispatcher)
}

// shutdown stops accepting requests first, then drains the activity queue.
func shutdown(stopHTTP func(context.Context) error, stopWorkers context.CancelFunc, dispatcher *queue.Dispatcher) {
	log := logger.Get()
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := stopHTTP(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("server exited cleanly")
}
