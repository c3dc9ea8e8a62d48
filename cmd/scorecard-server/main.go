// Package main provides the scorecard server entry point. The server hosts
// record intake, answer submission, and report computation under a single
// process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang/glog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sustainhq/scorecard/pkg/audit"
	"github.com/sustainhq/scorecard/pkg/formula"
	"github.com/sustainhq/scorecard/pkg/record"
	"github.com/sustainhq/scorecard/pkg/schema"
	"github.com/sustainhq/scorecard/pkg/scoring"
	"github.com/sustainhq/scorecard/pkg/survey"
)

func main() {
	var (
		listenAddr   string
		databaseType string
		databaseDSN  string
	)

	flag.StringVar(&listenAddr, "listen", ":8080", "Address to listen on")
	flag.StringVar(&databaseType, "db-type", "", "Database type (sqlite, postgres, or mysql)")
	flag.StringVar(&databaseDSN, "db-dsn", "", "Database connection string")
	flag.Parse()

	// Initialize glog for backwards compatibility
	_ = flag.Set("logtostderr", "true")

	// Set up structured logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting scorecard server", "listen", listenAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	db, err := setupDatabase(databaseType, databaseDSN)
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}

	// Stores
	schemaStore := schema.NewSchemaStore(db)
	formulaStore := formula.NewFormulaStore(db)
	recordStore := record.NewRecordStore(db)
	answerStore := survey.NewAnswerStore(db)
	auditStore := audit.NewAuditStore(db)

	for name, migrate := range map[string]func() error{
		"schema":   schemaStore.AutoMigrate,
		"formulas": formulaStore.AutoMigrate,
		"records":  recordStore.AutoMigrate,
		"answers":  answerStore.AutoMigrate,
		"audit":    auditStore.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			glog.Fatalf("Failed to migrate %s tables: %v", name, err)
		}
	}

	recordCfg := record.RecordConfigFromEnv()
	scoringCfg := scoring.ScoringConfigFromEnv()
	auditCfg := audit.AuditConfigFromEnv()

	machine := record.NewLifecycleMachine(recordCfg)
	snapshotCache := schema.SnapshotCacheFromEnv()
	engine := scoring.NewEngine(answerStore, formulaStore, schemaStore, recordStore, snapshotCache, scoringCfg, logger)

	logger.Info("loaded config",
		"strictApproval", recordCfg.StrictApproval,
		"approvedOnly", scoringCfg.ApprovedOnly,
		"fetchTimeout", scoringCfg.FetchTimeout,
		"auditRetentionDays", auditCfg.RetentionDays,
	)

	// Audit retention runs in the background for the life of the process.
	if auditCfg.Enabled {
		retention := audit.NewRetentionWorker(auditStore, auditCfg, logger)
		go retention.Run(ctx)
	}

	router := buildRouter(recordStore, machine, answerStore, auditStore, engine)

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("HTTP server error: %v", err)
		}
	}()

	logger.Info("scorecard server ready", "listen", listenAddr)

	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("scorecard server stopped")
}

func buildRouter(records *record.RecordStore, machine *record.LifecycleMachine, answers *survey.AnswerStore, auditStore *audit.AuditStore, engine *scoring.Engine) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Actor"},
		MaxAge:         300,
	}))

	r.Get("/healthz", healthHandler)
	r.Get("/livez", healthHandler)
	r.Get("/readyz", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/records", record.NewRouter(records, machine, auditStore))
		r.Mount("/answers", survey.NewRouter(answers, records, auditStore))
		r.Mount("/reports", scoring.NewRouter(engine))
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func setupDatabase(dbType, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = os.Getenv("SCORECARD_DB_DSN")
	}
	if dbType == "" {
		dbType = os.Getenv("SCORECARD_DB_TYPE")
		if dbType == "" {
			dbType = "sqlite"
		}
	}

	var dialector gorm.Dialector
	switch dbType {
	case "sqlite":
		if dsn == "" {
			dsn = "scorecard.db"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("database DSN is required for postgres (use -db-dsn or SCORECARD_DB_DSN)")
		}
		dialector = postgres.Open(dsn)
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("database DSN is required for mysql (use -db-dsn or SCORECARD_DB_DSN)")
		}
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q (expected sqlite, postgres, or mysql)", dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
