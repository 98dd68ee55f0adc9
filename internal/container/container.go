package container

import (
	"context"
	"errors"
	"fmt"

	"freshmart/scraper/internal/browser"
	"freshmart/scraper/internal/config"
	"freshmart/scraper/internal/domain"
	"freshmart/scraper/internal/exporter"
	"freshmart/scraper/internal/pipeline"
	"freshmart/scraper/internal/scraper"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// ErrSetup marks the one fatal failure class: the run cannot start at all.
// Everything past setup is local, recorded in statistics and survived.
var ErrSetup = errors.New("setup failed")

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Driver   *browser.Chrome
	Sink     exporter.Sink
	Pipeline *pipeline.Pipeline

	db *pgxpool.Pool
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	// Cheap reachability check before a browser is paid for.
	if err := browser.Probe(ctx, cfg.Browser, cfg.Site.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}

	driver, err := browser.NewChrome(cfg.Browser)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	container.Driver = driver

	sink, err := container.buildSink(ctx)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	container.Sink = sink

	waitTimeout := cfg.Browser.WaitTimeoutDuration()
	extractor := scraper.NewTreeExtractor(driver, cfg.Site, waitTimeout)
	resolver := scraper.NewLeafResolver(driver, cfg.Site, waitTimeout, extractor.Tree)
	paginator := scraper.NewPaginator(driver, cfg.Site, cfg.Listing, waitTimeout)

	container.Pipeline = pipeline.New(extractor, resolver, paginator, sink)

	return container, nil
}

func (c *Container) buildSink(ctx context.Context) (exporter.Sink, error) {
	switch c.Config.Export.Sink {
	case "json", "":
		return exporter.NewJSONSink(c.Config.Export.OutputDir), nil
	case "postgres":
		dbCfg := c.Config.Export.Database
		db, err := pgxpool.New(ctx,
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				dbCfg.Host,
				dbCfg.Port,
				dbCfg.User,
				dbCfg.Password,
				dbCfg.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		c.db = db
		return exporter.NewPostgresSink(db), nil
	default:
		return nil, fmt.Errorf("unknown export sink %q", c.Config.Export.Sink)
	}
}

// Run dismisses the site's entry overlays and drives the extraction
// pipeline end to end.
func (c *Container) Run(ctx context.Context) (*domain.ExportDocument, error) {
	if err := c.Driver.Navigate(ctx, c.Config.Site.BaseURL); err != nil {
		// The probe already passed; treat a dead first navigation as a
		// session that never became usable.
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	c.Driver.DismissConsent(ctx, c.Config.Site.Selectors.ConsentButton)

	return c.Pipeline.Run(ctx, c.Config.Site.Categories)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.Driver != nil {
		c.Driver.Close()
	}
	if c.db != nil {
		c.db.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}
