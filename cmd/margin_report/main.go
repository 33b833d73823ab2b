// margin_report assembles the margin/severity workbook from a stored fetch
// run: three sheets partitioned by stock and sold-by-AC status, each sorted
// by severity, with highlight fills on the problem columns.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"pricewatch/catalog"
	"pricewatch/classify"
	"pricewatch/database"
	"pricewatch/internal/config"
	"pricewatch/report"
)

func main() {
	runID := flag.String("run", "", "run ID to report on (default: latest run)")
	outPath := flag.String("out", "", "output workbook path (overrides MARGIN_REPORT_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outPath != "" {
		cfg.MarginReportPath = *outPath
	}

	setupLogging(cfg.LogLevel)
	ctx := context.Background()

	cats, err := catalog.Load(cfg.CategoryCatalogPath)
	if err != nil {
		log.Fatalf("Failed to load category catalog: %v", err)
	}

	snapshots, err := catalog.LoadSnapshot(cfg.SnapshotPath, cfg.SnapshotFormat, cfg.SnapshotEncoding, log.Default())
	if err != nil {
		log.Fatalf("Failed to load baseline snapshot: %v", err)
	}

	db, err := database.NewRunsDB(cfg.RunsDatabasePath)
	if err != nil {
		log.Fatalf("Failed to open runs database: %v", err)
	}
	defer db.Close()

	run, err := loadRun(ctx, db, *runID)
	if err != nil {
		log.Fatalf("Failed to load run: %v", err)
	}
	slog.Info("Run loaded", "run_id", run.ID, "resolved", len(run.Resolved))

	items := classify.ClassifyAll(run.Resolved, snapshots, cats)
	slog.Info("Items classified",
		"classified", len(items),
		"dropped", len(run.Resolved)-len(items))

	sections := report.AssembleMargin(items)
	if err := report.WriteWorkbook(cfg.MarginReportPath, sections); err != nil {
		log.Fatalf("Failed to write margin report: %v", err)
	}

	for _, section := range sections {
		slog.Info("Sheet written", "sheet", section.Name, "rows", len(section.Rows))
	}
	slog.Info("Margin report saved", "path", cfg.MarginReportPath)
}

func loadRun(ctx context.Context, db *database.RunsDB, runID string) (*database.Run, error) {
	if runID != "" {
		return db.GetRun(ctx, runID)
	}
	return db.LatestRun(ctx)
}

func setupLogging(level string) {
	slogLevel := slog.LevelInfo
	if strings.EqualFold(level, "debug") {
		slogLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})))
}
