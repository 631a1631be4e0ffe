package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/activityhub/backend/api/handler"
	"github.com/activityhub/backend/domain"
	"github.com/activityhub/backend/internal/config"
	"github.com/activityhub/backend/internal/infrastructure/bank"
	"github.com/activityhub/backend/internal/infrastructure/journal"
	"github.com/activityhub/backend/internal/infrastructure/monitor"
	pgInfra "github.com/activityhub/backend/internal/infrastructure/postgres"
	"github.com/activityhub/backend/internal/infrastructure/pricefeed"
	redisInfra "github.com/activityhub/backend/internal/infrastructure/redis"
	"github.com/activityhub/backend/internal/middleware"
	"github.com/activityhub/backend/internal/permit"
	"github.com/activityhub/backend/internal/router"
	"github.com/activityhub/backend/internal/services"
	"github.com/activityhub/backend/internal/services/lifecycle"
	"github.com/activityhub/backend/pkg/httpcontext"
	"github.com/activityhub/backend/pkg/logger"
	"github.com/activityhub/backend/repository"
	memoryRepo "github.com/activityhub/backend/repository/memory"
	pgRepo "github.com/activityhub/backend/repository/postgres"
	redisRepo "github.com/activityhub/backend/repository/redis"
	"github.com/activityhub/backend/usecase"
	activityUC "github.com/activityhub/backend/usecase/activity"
	authUC "github.com/activityhub/backend/usecase/auth"
	donationUC "github.com/activityhub/backend/usecase/donation"
	facadeUC "github.com/activityhub/backend/usecase/facade"
	registrationUC "github.com/activityhub/backend/usecase/registration"
	taskUC "github.com/activityhub/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var (
		pool         *pgxpool.Pool
		userRepo     repository.UserRepository
		activityRepo repository.ActivityRepository
		taskRepo     repository.TaskRepository
	)
	switch cfg.Storage.Driver {
	case "postgres":
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err = pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		userRepo = pgRepo.NewUserRepository(pool)
		activityRepo = pgRepo.NewActivityRepository(pool)
		taskRepo = pgRepo.NewTaskRepository(pool)
	default:
		userRepo = memoryRepo.NewUserRepository()
		activityRepo = memoryRepo.NewActivityRepository()
		taskRepo = memoryRepo.NewTaskRepository()
		zapLogger.Info("using in-memory storage driver")
	}

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	journalStore, err := journal.Open(cfg.Journal.Path, cfg.Journal.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open journal", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return journalStore.Close()
	})

	sweeper := services.NewAuditSweeper(journalStore, zapLogger, services.AuditConfig{
		Interval:  cfg.Journal.SweepInterval,
		Retention: time.Duration(cfg.Journal.RetentionHours) * time.Hour,
	})
	sweeper.Start()
	manager.Register("audit_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	var oracle usecase.PriceOracle
	switch cfg.Oracle.Mode {
	case "http":
		oracle = pricefeed.NewHTTPFeed(cfg.Oracle.URL, cfg.Oracle.MaxAge, zapLogger)
	default:
		oracle = pricefeed.NewStatic(cfg.Oracle.StaticPrice, domain.QuoteDecimals)
	}

	mon := monitor.New(pool, redisClient, journalStore, oracle, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	accounts := bank.NewMemory()

	operator := domain.Address(cfg.Economy.OperatorAddress)
	registrationUseCase := registrationUC.New(userRepo, permit.NewRegistry(operator), journalStore, zapLogger)
	activityUseCase := activityUC.New(
		activityRepo,
		registrationUseCase,
		oracle,
		accounts,
		permit.NewRegistry(operator),
		journalStore,
		zapLogger,
		activityUC.Config{
			JoinVault:         domain.Address(cfg.Economy.JoinVaultAddress),
			RefundOverpayment: cfg.Economy.RefundOverpayment,
		},
	)
	donationUseCase := donationUC.New(
		activityRepo,
		accounts,
		permit.NewRegistry(operator),
		journalStore,
		zapLogger,
		donationUC.Config{
			Vault:    domain.Address(cfg.Economy.DonationVault),
			Treasury: domain.Address(cfg.Economy.TreasuryAddress),
		},
	)
	taskUseCase := taskUC.New(
		taskRepo,
		activityRepo,
		registrationUseCase,
		oracle,
		accounts,
		permit.NewRegistry(operator),
		journalStore,
		zapLogger,
		taskUC.Config{
			Vault:             domain.Address(cfg.Economy.TaskVaultAddress),
			RefundOverpayment: cfg.Economy.RefundOverpayment,
		},
	)
	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger)

	hub := facadeUC.New(
		domain.Address(cfg.Economy.FacadeAddress),
		registrationUseCase,
		activityUseCase,
		taskUseCase,
		donationUseCase,
		zapLogger,
	)
	if err := hub.Grant(operator,
		registrationUseCase.Permits(),
		activityUseCase.Permits(),
		taskUseCase.Permits(),
		donationUseCase.Permits(),
	); err != nil {
		zapLogger.Fatal("failed to grant relay permissions", zap.Error(err))
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.SessionTTL),
		Registration: apiHandler.NewRegistrationHandler(hub, ctxAdapter, zapLogger),
		Activity:     apiHandler.NewActivityHandler(hub, ctxAdapter, zapLogger),
		Donation:     apiHandler.NewDonationHandler(hub, ctxAdapter, zapLogger),
		Task:         apiHandler.NewTaskHandler(hub, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
