package main

import (
	"context"
	"flag"
	"log"

	"stress-index/internal/config"
	"stress-index/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true}, "catalog_init")

	cfg := config.Load(*configFile)
	client, err := cfg.NewRawClient()
	if err != nil {
		log.Fatal(err)
	}
	if client == nil {
		log.Fatal("moi.api_key is not configured")
	}
	ctx := context.Background()
	catalogID := sdk.CatalogID(cfg.MOI.CatalogID)
	if catalogID == 0 {
		catalogID = 1
	}

	// Step 1: catalog database + summary table
	dbID, tableID, err := initCatalog(ctx, client, catalogID, cfg.Database.Name)
	if err != nil {
		log.Fatal("catalog init failed:", err)
	}

	// Step 2: NL2SQL knowledge
	if err := initKnowledge(ctx, client); err != nil {
		log.Fatal("knowledge init failed:", err)
	}

	logger.Info("=== all done ===", "database_id", dbID, "summary_table_id", tableID,
		"hint", "copy these into moi.database_id and moi.summary_table_id")
}
