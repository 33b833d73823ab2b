// fetch_prices runs the fetch phase of the pipeline: it logs into the ERP
// portal, resolves every baseline item against the pricing endpoint and
// stores the batch as a run, together with the operator failure log.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pricewatch/catalog"
	"pricewatch/database"
	"pricewatch/fetcher"
	"pricewatch/internal/config"
	"pricewatch/report"
	"pricewatch/session"
)

func main() {
	snapshotPath := flag.String("snapshot", "", "baseline snapshot file (overrides SNAPSHOT_PATH)")
	dbPath := flag.String("db", "", "runs database path (overrides RUNS_DATABASE_PATH)")
	failuresPath := flag.String("failures", "", "failure log path (overrides FAILURE_LOG_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *snapshotPath != "" {
		cfg.SnapshotPath = *snapshotPath
	}
	if *dbPath != "" {
		cfg.RunsDatabasePath = *dbPath
	}
	if *failuresPath != "" {
		cfg.FailureLogPath = *failuresPath
	}

	setupLogging(cfg.LogLevel)
	ctx := context.Background()

	// The catalog is loaded before any fetch begins: a missing or
	// malformed catalog aborts the run here.
	cats, err := catalog.Load(cfg.CategoryCatalogPath)
	if err != nil {
		log.Fatalf("Failed to load category catalog: %v", err)
	}
	slog.Info("Category catalog loaded", "categories", cats.Len())

	items, err := catalog.LoadSnapshot(cfg.SnapshotPath, cfg.SnapshotFormat, cfg.SnapshotEncoding, log.Default())
	if err != nil {
		log.Fatalf("Failed to load baseline snapshot: %v", err)
	}
	slog.Info("Baseline snapshot loaded", "items", len(items))

	credential, err := obtainCredential(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to obtain portal credential: %v", err)
	}

	client := fetcher.NewClient(fetcher.ClientConfig{
		BaseURL:    cfg.APIBaseURL,
		Credential: credential,
		Timeout:    cfg.FetchTimeout,
		RateLimit:  rate.Limit(cfg.RatePerSecond),
		Retry: fetcher.RetryPolicy{
			MaxAttempts: cfg.FetchMaxAttempts,
			Backoff:     cfg.FetchBackoff,
		},
		Progress: &fetcher.LogSink{Every: 25},
	})

	startedAt := time.Now()
	result := client.FetchAll(ctx, items)

	db, err := database.NewRunsDB(cfg.RunsDatabasePath)
	if err != nil {
		log.Fatalf("Failed to open runs database: %v", err)
	}
	defer db.Close()

	run := database.NewRun(startedAt, len(items), result)
	if err := db.SaveRun(ctx, run); err != nil {
		log.Fatalf("Failed to save run: %v", err)
	}

	if err := report.WriteFailureLog(cfg.FailureLogPath, result.Failed); err != nil {
		log.Fatalf("Failed to write failure log: %v", err)
	}

	slog.Info("Fetch run stored",
		"run_id", run.ID,
		"items", len(items),
		"resolved", len(result.Resolved),
		"failed", len(result.Failed),
		"failure_log", cfg.FailureLogPath)
}

func obtainCredential(ctx context.Context, cfg *config.Config) (string, error) {
	var provider session.CredentialProvider
	if cfg.PortalCredential != "" {
		provider = session.StaticCredential(cfg.PortalCredential)
	} else {
		provider = session.NewPortalLogin(session.PortalConfig{
			LoginURL: cfg.PortalLoginURL,
			Username: cfg.PortalUsername,
			Password: cfg.PortalPassword,
		})
	}
	return provider.Credential(ctx)
}

func setupLogging(level string) {
	slogLevel := slog.LevelInfo
	if strings.EqualFold(level, "debug") {
		slogLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})))
}
