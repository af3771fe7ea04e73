// Command sweep runs one stress index sweep over every user and exits.
// It exits non-zero when any user failed, for use from an external cron.
package main

import (
	"context"
	"flag"
	"os"

	"stress-index/internal/config"
	"stress-index/internal/logger"
	"stress-index/internal/service"
	"stress-index/internal/store"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log, "sweep")
	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	var exporter service.SummaryExporter
	if raw, err := cfg.NewRawClient(); err != nil {
		logger.Warn("sdk client init failed", "err", err)
	} else if raw != nil {
		exporter = service.NewCatalogSync(raw, cfg.MOI.DatabaseID, cfg.MOI.SummaryTableID)
	}

	svc := service.NewStressService(store.New(db), exporter, cfg.Engine.SweepConcurrency)
	report, err := service.NewScheduler(svc, cfg.Engine.SweepInterval, false).RunOnce(context.Background())
	if err != nil {
		os.Exit(1)
	}
	if report.Err() != nil {
		os.Exit(2)
	}
}
