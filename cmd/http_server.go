package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/callcenter-admin/internal"
	"github.com/frahmantamala/callcenter-admin/internal/audit"
	auditPostgres "github.com/frahmantamala/callcenter-admin/internal/audit/postgres"
	"github.com/frahmantamala/callcenter-admin/internal/auth"
	authPostgres "github.com/frahmantamala/callcenter-admin/internal/auth/postgres"
	"github.com/frahmantamala/callcenter-admin/internal/call"
	callPostgres "github.com/frahmantamala/callcenter-admin/internal/call/postgres"
	"github.com/frahmantamala/callcenter-admin/internal/candidate"
	candidatePostgres "github.com/frahmantamala/callcenter-admin/internal/candidate/postgres"
	coredb "github.com/frahmantamala/callcenter-admin/internal/core/db"
	"github.com/frahmantamala/callcenter-admin/internal/core/events"
	"github.com/frahmantamala/callcenter-admin/internal/interview"
	interviewPostgres "github.com/frahmantamala/callcenter-admin/internal/interview/postgres"
	"github.com/frahmantamala/callcenter-admin/internal/rbac"
	rbacPostgres "github.com/frahmantamala/callcenter-admin/internal/rbac/postgres"
	"github.com/frahmantamala/callcenter-admin/internal/transport/rest"
	"github.com/frahmantamala/callcenter-admin/internal/user"
	userPostgres "github.com/frahmantamala/callcenter-admin/internal/user/postgres"
	"github.com/frahmantamala/callcenter-admin/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pgx connection pool instead of opening its own
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	txManager := coredb.NewTransactionManager(gormDB)
	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(audit.EventAuditRecorded, func(ctx context.Context, event events.Event) error {
		lg.Debug("audit entry recorded", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})

	// stores
	overrideStore := rbacPostgres.NewOverrideStore(gormDB)
	auditRepo := auditPostgres.NewAuditRepository(gormDB)
	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	candidateRepo := candidatePostgres.NewCandidateRepository(gormDB)
	interviewRepo := interviewPostgres.NewInterviewRepository(gormDB)
	callRepo := callPostgres.NewCallRepository(gormDB)

	// access control engine
	resolver := rbac.NewResolver(overrideStore, lg)
	gate := rbac.NewGate(resolver, lg)

	// services
	auditService := audit.NewService(auditRepo, eventBus, config.Audit, lg)
	tokenGenerator := auth.NewJWTTokenGenerator(config.Security)
	authService := auth.NewService(authRepo, tokenGenerator, auditService, config.Security.BCryptCost, lg)
	userService := user.NewService(userRepo, overrideStore, resolver, auditService, authService, txManager, lg)
	candidateService := candidate.NewService(candidateRepo, auditService, lg)
	interviewService := interview.NewService(interviewRepo, auditService, lg)
	callService := call.NewService(callRepo, auditService, lg)

	// handlers
	authHandler := auth.NewHandler(authService)
	handlers := rest.Handlers{
		Auth:      authHandler,
		RBAC:      auth.NewRBACAuthorization(gate, lg),
		User:      user.NewHandler(userService),
		Audit:     audit.NewHandler(auditService),
		Candidate: candidate.NewHandler(candidateService),
		Interview: interview.NewHandler(interviewService),
		Call:      call.NewHandler(callService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
