package main

import (
	"context"

	"freshmart/scraper/internal/config"
	"freshmart/scraper/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting catalog scraper...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.Log.Level, err)
	}
	log.SetLevel(level)
	log.Info("Configuration loaded successfully")

	ctx := context.Background()

	// Initialize container with all dependencies
	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	// Run the extraction pipeline
	doc, err := app.Run(ctx)
	if err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Infof("Application finished successfully: %d products, %d errors",
		doc.Statistics.TotalProducts, len(doc.Statistics.Errors))
}
