package browser

import (
	"context"
	"fmt"
	"time"

	"freshmart/scraper/internal/config"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// Probe checks that the target site answers plain HTTP before a browser is
// launched for it. A dead site should fail setup cheaply, not after Chrome
// has been spun up.
func Probe(ctx context.Context, cfg config.BrowserConfig, baseURL string) error {
	client := resty.New().
		SetTimeout(time.Duration(cfg.ProbeTimeout)*time.Second).
		SetRetryCount(cfg.ProbeRetries).
		SetRetryWaitTime(2*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Get(baseURL)
	if err != nil {
		return fmt.Errorf("site %s is unreachable: %w", baseURL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("site %s answered with HTTP %d", baseURL, resp.StatusCode())
	}

	log.Infof("Site %s reachable (HTTP %d)", baseURL, resp.StatusCode())
	return nil
}
