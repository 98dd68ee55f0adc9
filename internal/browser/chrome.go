package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freshmart/scraper/internal/automation"
	"freshmart/scraper/internal/config"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// Chrome drives a single headless browser session through chromedp. It is
// the only automation.Driver implementation that talks to a real page; the
// whole pipeline shares this one session sequentially.
type Chrome struct {
	cfg           config.BrowserConfig
	rl            ratelimit.Limiter
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// NewChrome launches the browser session. A failure here is fatal for the
// run: there is nothing to fall back to without a session.
func NewChrome(cfg config.BrowserConfig) (*Chrome, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
	)
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser process to start now, so an
	// unlaunchable browser surfaces as a setup failure instead of failing
	// the first navigation mid-run.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	log.Info("Browser session started")

	return &Chrome{
		cfg:           cfg,
		rl:            ratelimit.New(cfg.NavigationsPerSecond),
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Pace navigations so the pipeline never hammers the site.
	c.rl.Take()

	opCtx, cancel := c.opContext()
	defer cancel()

	err := chromedp.Run(opCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: navigating to %s", automation.ErrTimeout, url)
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	log.Debugf("Navigated to %s", url)
	return nil
}

func (c *Chrome) FindAll(ctx context.Context, selector string) ([]automation.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := c.snapshot()
	if err != nil {
		return nil, err
	}

	matches := root.Select(selector)
	out := make([]automation.Element, 0, len(matches))
	for _, m := range matches {
		out = append(out, m)
	}
	return out, nil
}

func (c *Chrome) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (automation.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(c.browserCtx, timeout)
	defer cancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: waiting for %s", automation.ErrTimeout, selector)
		}
		return nil, fmt.Errorf("failed waiting for %s: %w", selector, err)
	}

	root, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	matches := root.Select(selector)
	if len(matches) == 0 {
		// Visible per CDP but gone from the snapshot: the page mutated
		// between wait and capture. Treat like a timeout.
		return nil, fmt.Errorf("%w: %s disappeared after wait", automation.ErrTimeout, selector)
	}
	return matches[0], nil
}

func (c *Chrome) ScrollToBottom(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx, cancel := c.opContext()
	defer cancel()

	err := chromedp.Run(opCtx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
	)
	if err != nil {
		return fmt.Errorf("failed to scroll page: %w", err)
	}
	return nil
}

func (c *Chrome) Click(ctx context.Context, el automation.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	handle, ok := el.(*automation.HTMLElement)
	if !ok || handle.Selector == "" {
		return fmt.Errorf("element is not clickable: no live selector attached")
	}

	opCtx, cancel := c.opContext()
	defer cancel()

	js := fmt.Sprintf(`document.querySelectorAll(%q)[%d].click();`, handle.Selector, handle.Index)
	if err := chromedp.Run(opCtx, chromedp.Evaluate(js, nil)); err != nil {
		return fmt.Errorf("failed to click %s[%d]: %w", handle.Selector, handle.Index, err)
	}
	return nil
}

// DismissConsent clicks the cookie/consent button when present. Best
// effort: an absent overlay is the normal case.
func (c *Chrome) DismissConsent(ctx context.Context, selector string) {
	if selector == "" {
		return
	}

	els, err := c.FindAll(ctx, selector)
	if err != nil || len(els) == 0 {
		return
	}

	if err := c.Click(ctx, els[0]); err != nil {
		log.Debugf("Consent button click failed: %v", err)
		return
	}
	log.Debug("Dismissed consent overlay")
}

func (c *Chrome) Close() error {
	c.browserCancel()
	c.allocCancel()
	log.Info("Browser session closed")
	return nil
}

func (c *Chrome) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.browserCtx, c.cfg.WaitTimeoutDuration())
}

// snapshot captures the live DOM as HTML and parses it into addressable
// elements. One CDP round-trip per lookup keeps element handles stable no
// matter how the page mutates afterwards.
func (c *Chrome) snapshot() (*automation.HTMLElement, error) {
	opCtx, cancel := c.opContext()
	defer cancel()

	var html string
	if err := chromedp.Run(opCtx, chromedp.OuterHTML("html", &html)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: capturing page snapshot", automation.ErrTimeout)
		}
		return nil, fmt.Errorf("failed to capture page snapshot: %w", err)
	}

	return automation.Snapshot(html)
}
