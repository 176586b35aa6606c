package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"evo/docs"
	"evo/internal/auth"
	"evo/internal/config"
	"evo/internal/database"
	"evo/internal/database/migration"
	handlers "evo/internal/http/handler"
	"evo/internal/http/middleware"
	"evo/internal/logging"
	tracing "evo/internal/otel"
	"evo/internal/repository/postgres"
	"evo/internal/service"
	"evo/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var flagNoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagNoMigrate, "no-migrate", false, "Skip schema migration on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing_shutdown_failed", err, nil)
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if !flagNoMigrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return err
		}
	}

	// Receipt storage (S3-compatible, MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	var denylist auth.Denylist = auth.NoopDenylist{}
	if cfg.Redis.Addr != "" {
		rdb, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		denylist = auth.NewRedisDenylist(rdb)
	} else {
		log.Warn("token_denylist_disabled", map[string]any{"reason": "REDIS_ADDR is empty"})
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	// Initialize repositories and services
	userRepo := postgres.NewUserPostgres(db)
	vehicleRepo := postgres.NewVehiclePostgres(db)
	svcs := handlers.Services{
		Auth:     service.NewAuthService(userRepo, tokens, denylist),
		Users:    service.NewUserService(userRepo, vehicleRepo, objStore, log),
		Vehicles: service.NewVehicleService(vehicleRepo, objStore, cfg.ServiceDefaults, cfg.Location(), log),
		Costs:    service.NewCostService(vehicleRepo, objStore, cfg.ServiceDefaults, time.Duration(cfg.MinIO.PresignExpirySec)*time.Second, log),
	}

	app, err := newApp(cfg, log, db, svcs, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("http_shutdown_failed", err, nil)
		}
	}()

	log.Info("http_listen", map[string]any{"addr": ":" + cfg.Port})
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	log.Info("http_stopped", nil)
	return nil
}

// newApp builds the fiber app with global middleware, ops endpoints and the API routes.
func newApp(cfg *config.AppConfig, log *logging.Logger, db *sql.DB, svcs handlers.Services, reg prometheus.Registerer) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "evo",
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(service.MaxReceiptSize) + 1<<20,
		DisableStartupMessage: true,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	// Register global middleware
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.LoggerWithWriter(os.Stdout, cfg.Location()))
	app.Use(promMiddleware.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins(),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + middleware.RequestIDHeader,
		ExposeHeaders: middleware.RequestIDHeader + ", Content-Disposition",
	}))

	if g, ok := reg.(prometheus.Gatherer); ok {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, db, svcs)

	log.Info("http_routes_registered", map[string]any{"routes": len(app.GetRoutes(true))})
	return app, nil
}
