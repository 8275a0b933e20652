package main

import (
	"context"
	"flag"
	"log"
	"os"

	"StockETL/internal/di"
	"StockETL/internal/domain/models"
	"StockETL/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	ticker := flag.String("ticker", "", "ticker symbol, overrides etl.ticker")
	flag.Parse()

	// Load config (.env first, then environment overrides)
	cfg, err := config.LoadWithEnv(*configPath, ".env")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *ticker != "" {
		cfg.ETL.Ticker = *ticker
	}

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	report, err := app.Run(context.Background())
	if err != nil {
		log.Printf("etl failed run_id=%s kind=%s: %v", report.RunID, models.KindOf(err), err)
		os.Exit(1)
	}
}
