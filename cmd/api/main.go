package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/callsight/callsight/internal/application"
	appanalysis "github.com/callsight/callsight/internal/application/analysis"
	appcalls "github.com/callsight/callsight/internal/application/calls"
	appcomparison "github.com/callsight/callsight/internal/application/comparison"
	"github.com/callsight/callsight/internal/config"
	domain "github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
	aiclient "github.com/callsight/callsight/internal/infra/ai/openai"
	mysqlp "github.com/callsight/callsight/internal/infra/db/mysql"
	postgresp "github.com/callsight/callsight/internal/infra/db/postgres"
	sqlitep "github.com/callsight/callsight/internal/infra/db/sqlite"
	"github.com/callsight/callsight/internal/infra/httpserver"
	minioStore "github.com/callsight/callsight/internal/infra/storage"
	"github.com/callsight/callsight/internal/logger"
	"github.com/callsight/callsight/internal/middleware"
)

func main() {
	// .env optional; container deploys set real env vars
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logg := logger.New()
	ctx := context.Background()

	// connect DB sesuai driver
	var (
		db        *sql.DB
		calls     domain.Repository
		snapshots comparisons.Repository
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		calls = mysqlp.NewCallRepository(db)
		snapshots = mysqlp.NewSnapshotRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		calls = postgresp.NewCallRepository(db)
		snapshots = postgresp.NewSnapshotRepository(db)
	case "sqlite":
		db, err = sqlitep.Connect(ctx, cfg.Database.Path)
		if err != nil {
			log.Fatalf("sqlite connect error: %v", err)
		}
		calls = sqlitep.NewCallRepository(db)
		snapshots = sqlitep.NewSnapshotRepository(db)
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}
	defer db.Close()

	// init minio; endpoint kosong = archiving off
	var archive domain.TranscriptStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	analyst := aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	clock := application.SystemClock{}

	analysisSvc := &appanalysis.Service{Repo: calls, Analyst: analyst, Clock: clock}
	comparisonSvc := &appcomparison.Service{
		Calls:     calls,
		Snapshots: snapshots,
		Analyst:   analyst,
		Clock:     clock,
		Log:       logg,
	}
	callsSvc := &appcalls.Service{Repo: calls, Archive: archive, Clock: clock}

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}

	// init router + middleware chain
	mux := chi.NewRouter()
	mux.Use(middleware.Logging(logg))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(100, 10))
	mux.Mount("/", httpserver.NewRouter(analysisSvc, comparisonSvc, callsSvc, snapshots, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // oracle round trips are slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logg.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logg.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logg.WithError(err).Error("shutdown error")
	}
}
