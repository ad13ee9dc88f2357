package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"FareAudit/src/config"
	"FareAudit/src/datasource/file"
	"FareAudit/src/processor"
	"FareAudit/src/report"
	"FareAudit/src/storage"
)

func main() {
	jsonFolder := "./config"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, "config.json", "dataconfig.json")
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName, cfg.LogMaxBytes)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	if err := run(cfg, dcfg, logger, os.Stdout); err != nil {
		logger.Error(err.Error())
		fmt.Fprintln(os.Stderr, "audit failed:", err)
		os.Exit(1)
	}
}

// run executes the audit as a single synchronous batch: locate the newest
// publication, resolve its layout, normalize, derive metrics, annotate, then
// emit the chart, the workbook and the console report. Any fatal error
// aborts before output is written.
func run(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, out io.Writer) error {
	latest, err := file.FindLatestFareFile(cfg.DataDir)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Auditing %s (modified %s)",
		latest.FullPath, latest.ModTime.Format("2006-01-02 15:04:05")))

	raw, err := file.LoadTable(latest.FullPath, cfg.Audit.MaxHeaderScan)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Raw table loaded: %d rows, %d columns", raw.Nrow(), len(raw.Names())))

	table, err := processor.Normalize(raw)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Normalized table: %d monthly records", len(table.Records)))

	processor.ComputeMoM(table.Records)
	flagged := processor.FlagLeakage(table.Records, cfg.Audit.EconomyDropPct, cfg.Audit.BusinessStablePct)
	logger.Info(fmt.Sprintf("Revenue leakage events flagged: %d", flagged))

	notes := processor.NewNoteTable(dcfg.HistoricalContext)
	processor.Annotate(table.Records, notes)

	if err := report.BuildChart(table, cfg.OutputHTML); err != nil {
		return err
	}
	logger.Info("Chart saved to: " + cfg.OutputHTML)
	fmt.Fprintf(out, "Chart saved to: %s\n", cfg.OutputHTML)

	if cfg.OutputWorkbook != "" {
		if err := report.SaveWorkbook(table, cfg.OutputWorkbook); err != nil {
			return err
		}
		logger.Info("Workbook saved to: " + cfg.OutputWorkbook)
	}

	report.WriteAudit(out, table)
	return nil
}
