package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/service-bay/ticket-service/internal/api/http"
	"github.com/service-bay/ticket-service/internal/api/http/handlers"
	"github.com/service-bay/ticket-service/internal/auth"
	"github.com/service-bay/ticket-service/internal/config"
	"github.com/service-bay/ticket-service/internal/events"
	"github.com/service-bay/ticket-service/internal/messaging"
	"github.com/service-bay/ticket-service/internal/observability"
	"github.com/service-bay/ticket-service/internal/persistence"
	"github.com/service-bay/ticket-service/internal/repository"
	"github.com/service-bay/ticket-service/internal/service"
	"github.com/service-bay/ticket-service/internal/worker"
)

type stores struct {
	users         repository.UserRepository
	tickets       repository.TicketRepository
	notifications repository.NotificationRepository
	stats         repository.StatsRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	repos := openStores(pg, logger)

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redis.Close()

	var replayGuard auth.ReplayGuard = auth.NewMemoryReplayGuard()
	if redis != nil {
		replayGuard = auth.NewRedisReplayGuard(redis.Client)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(repos.notifications, logger, metrics)
	subscribers := []worker.Subscriber{notificationService}
	if cfg.Kafka.Enabled() {
		producer := messaging.NewKafkaProducer(cfg.Kafka)
		defer producer.Close() //nolint:errcheck
		subscribers = append(subscribers, messaging.NewEventPublisher(producer, logger, metrics))
		logger.Info("kafka event fan-out enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	worker.StartEventSubscribers(dispatcher, logger, subscribers...)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     repos.users,
		TokenManager: tokens,
		ReplayGuard:  replayGuard,
		Logger:       logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   repos.users,
		BcryptCost: cfg.Auth.BcryptCost,
		Pagination: cfg.Pagination,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repos.tickets,
		UserRepo:   repos.users,
		Dispatcher: dispatcher,
		Pagination: cfg.Pagination,
		Logger:     logger,
	})
	dashboardService := service.NewDashboardService(repos.stats)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		switch {
		case err != nil:
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		case created:
			logger.Info("bootstrap admin created", zap.String("email", cfg.Admin.Email))
		default:
			logger.Warn("bootstrap admin already exists", zap.String("email", cfg.Admin.Email))
		}
	}

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.users),
		Gatherer:       registry,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

// openStores picks Postgres when a pool is available and the in-memory
// store otherwise.
func openStores(pg *persistence.Postgres, logger *zap.Logger) stores {
	if pg.Enabled() {
		logger.Info("repositories ready", zap.String("backend", "postgres"))
		return stores{
			users:         repository.NewUserRepository(pg.Pool),
			tickets:       repository.NewTicketRepository(pg.Pool),
			notifications: repository.NewNotificationRepository(pg.Pool),
			stats:         repository.NewStatsRepository(pg.Pool),
		}
	}
	logger.Info("repositories ready", zap.String("backend", "memory"))
	mem := repository.NewMemoryStore()
	return stores{
		users:         mem.Users(),
		tickets:       mem.Tickets(),
		notifications: mem.Notifications(),
		stats:         mem.Stats(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
