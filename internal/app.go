package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"file-share-api/config"
	"file-share-api/internal/application/ports"
	"file-share-api/internal/application/services"
	"file-share-api/internal/domain/user"
	"file-share-api/internal/domain/user_file"
	"file-share-api/internal/infrastructure/cache"
	"file-share-api/internal/infrastructure/catalog"
	"file-share-api/internal/infrastructure/db/postgres"
	pgUser "file-share-api/internal/infrastructure/db/postgres/user"
	pgUserFile "file-share-api/internal/infrastructure/db/postgres/user_file"
	"file-share-api/internal/infrastructure/db/sqlite"
	liteUser "file-share-api/internal/infrastructure/db/sqlite/user"
	liteUserFile "file-share-api/internal/infrastructure/db/sqlite/user_file"
	"file-share-api/internal/infrastructure/jwt"
	"file-share-api/internal/infrastructure/metrics"
	"file-share-api/internal/infrastructure/mq"
	"file-share-api/internal/infrastructure/storage"
	"file-share-api/internal/interface/api/rest"
	"file-share-api/internal/interface/api/rest/middleware"
	"file-share-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	pgPool     *pgxpool.Pool
	sqlDB      *sql.DB
	userRepo   user.Repository
	fileRepo   user_file.Repository
	userFiles  *storage.Disk
	drops      *storage.Disk
	catalog    *catalog.Catalog
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
	reconciler *services.Reconciler
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a := &App{
		logger:   logger,
		cfg:      cfg,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
	}

	// db
	if err = a.openRepositories(ctx); err != nil {
		logger.Fatal("failed to open database", zap.String("driver", cfg.DB.Driver), zap.Error(err))
	}

	// byte storage
	if a.userFiles, err = storage.NewDisk(filepath.Join(cfg.Storage.Dir, "users"), logger); err != nil {
		logger.Fatal("failed to open file storage", zap.Error(err))
	}
	if cfg.Drop.Enabled {
		if a.drops, err = storage.NewDisk(filepath.Join(cfg.Storage.Dir, "drops"), logger); err != nil {
			logger.Fatal("failed to open drop storage", zap.Error(err))
		}
		if a.catalog, err = catalog.Open(cfg.Drop.Catalog, logger); err != nil {
			logger.Fatal("failed to open drop catalog", zap.Error(err))
		}
	}

	// rabbitMQ
	if !cfg.MQEnabled() {
		logger.Info("RabbitMQ disabled: RABBITMQ_HOST is empty, events are dropped")
		a.mq = mq.NewNop(logger)
		return a, nil
	}
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	a.mq = rbMQ

	// rmqConsumer retries removal of bytes a delete could not remove
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, a.userFiles)
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}
	a.mqConsumer = rmqConsumer

	return a, nil
}

func (a *App) openRepositories(ctx context.Context) error {
	switch a.cfg.DB.Driver {
	case config.DriverPostgres:
		migrateURL, err := a.cfg.MigrateURL()
		if err != nil {
			return err
		}
		if err = postgres.Migrate(migrateURL, a.logger); err != nil {
			return err
		}
		dsn, err := a.cfg.DBDSN()
		if err != nil {
			return err
		}
		if a.pgPool, err = postgres.New(ctx, a.logger, dsn); err != nil {
			return err
		}
		a.userRepo = pgUser.NewRepository(a.pgPool)
		a.fileRepo = pgUserFile.NewRepository(a.pgPool)

	case config.DriverSQLite:
		db, err := sqlite.New(ctx, a.logger, a.cfg.SQLiteDSN())
		if err != nil {
			return err
		}
		a.sqlDB = db
		if err = sqlite.Migrate(db, a.logger); err != nil {
			return err
		}
		a.userRepo = liteUser.NewRepository(db)
		a.fileRepo = liteUserFile.NewRepository(db)

	default:
		return fmt.Errorf("unsupported driver %q", a.cfg.DB.Driver)
	}

	a.userRepo = cache.NewUserRepository(a.userRepo, a.cfg.Cache.UsersSize, a.cfg.Cache.UsersTTL, metrics.NewCacheCounter())

	return nil
}

func (a *App) Close() {
	if a.mqConsumer != nil {
		_ = a.mqConsumer.Close()
	}
	if a.mq != nil {
		_ = a.mq.Close()
	}
	if a.pgPool != nil {
		a.pgPool.Close()
	}
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	if a.reconciler != nil {
		g.Go(func() error {
			a.reconciler.Run(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers(ctx context.Context) error {
	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret, a.cfg.App.Name)
	authService := services.NewAuthService(jwtService, a.cfg.App.JWTTTL)
	userService := services.NewUserService(a.userRepo, a.mq, a.logger, a.mCounter)
	links := services.NewLinkIssuer(a.fileRepo, a.cfg.Link.TTL)
	userFileService := services.NewUserFileService(a.userFiles, a.fileRepo, a.userRepo, links, a.mq, a.logger, a.mCounter)
	statsService := services.NewStatsService(a.fileRepo)
	a.reconciler = services.NewReconciler(a.fileRepo, a.userFiles, a.cfg.Reconcile.Interval, a.cfg.Reconcile.PendingAfter, a.logger)

	if err := userService.EnsureAdmin(ctx, a.cfg.Admin.Username, a.cfg.Admin.DisplayName, a.cfg.Admin.Password); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// controllers
	rest.NewAuthController(a.router, a.logger, userService, authService)
	rest.NewUserController(a.router, userService, a.logger, jwtService)
	rest.NewUserFileController(a.router, userFileService, a.logger, jwtService, a.cfg.DisplayLocation(), a.cfg.App.MaxUploadSize)
	rest.NewAdminController(a.router, statsService, a.logger, jwtService)
	if a.cfg.Drop.Enabled {
		dropService := services.NewDropService(a.drops, a.catalog, a.cfg.Drop.AllowedExtensions, a.mq, a.logger, a.mCounter)
		rest.NewDropController(a.router, dropService, a.logger, a.cfg.App.MaxUploadSize)
	}

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))

	return nil
}

func (a *App) Logger() *zap.Logger { return a.logger }
