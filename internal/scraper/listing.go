package scraper

import (
	"context"
	"fmt"
	"time"

	"freshmart/scraper/internal/automation"
	"freshmart/scraper/internal/config"
	"freshmart/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Paginator walks one leaf's listing across every delivery mechanism the
// site uses: discrete next-page links and scroll-triggered lazy loading.
// Each Collect call starts from a fresh navigation; nothing is resumable.
type Paginator struct {
	driver      automation.Driver
	baseURL     string
	selectors   config.SelectorsConfig
	cfg         config.ListingConfig
	waitTimeout time.Duration
}

func NewPaginator(driver automation.Driver, site config.SiteConfig, listing config.ListingConfig, waitTimeout time.Duration) *Paginator {
	return &Paginator{
		driver:      driver,
		baseURL:     site.BaseURL,
		selectors:   site.Selectors,
		cfg:         listing,
		waitTimeout: waitTimeout,
	}
}

// Collect yields every raw item on the listing at listingURL, page by page,
// in display order. Malformed item blocks come back as skipped outcomes;
// only a failed initial navigation fails the whole leaf.
func (p *Paginator) Collect(ctx context.Context, listingURL string) ([]domain.Outcome[domain.RawItem], error) {
	if err := p.driver.Navigate(ctx, listingURL); err != nil {
		return nil, fmt.Errorf("failed to open listing: %w", err)
	}

	var outcomes []domain.Outcome[domain.RawItem]

	for page := 1; ; page++ {
		if err := p.settleLazyLoad(ctx); err != nil {
			outcomes = append(outcomes, domain.Skipped[domain.RawItem]("page", fmt.Sprintf("%s page %d", listingURL, page), err))
		}

		pageItems := p.harvestPage(ctx, listingURL, page)
		outcomes = append(outcomes, pageItems...)

		if page >= p.cfg.MaxPages {
			log.Warnf("Listing %s hit the %d page ceiling, stopping", listingURL, p.cfg.MaxPages)
			break
		}

		more, err := p.gotoNextPage(ctx)
		if err != nil {
			outcomes = append(outcomes, domain.Skipped[domain.RawItem]("page", fmt.Sprintf("%s page %d", listingURL, page+1), err))
			break
		}
		if !more {
			break
		}
	}

	return outcomes, nil
}

// settleLazyLoad scrolls until the visible item count stops growing for the
// configured number of consecutive attempts. An explicit idle counter, not
// a fixed scroll count: slow-loading content resets it on every growth.
func (p *Paginator) settleLazyLoad(ctx context.Context) error {
	count, err := p.itemCount(ctx)
	if err != nil {
		return err
	}

	idle := 0
	for idle < p.cfg.IdleScrolls {
		if err := p.driver.ScrollToBottom(ctx); err != nil {
			return err
		}
		time.Sleep(p.cfg.ScrollSettleDuration())

		grown, err := p.itemCount(ctx)
		if err != nil {
			return err
		}

		if grown > count {
			count = grown
			idle = 0
		} else {
			idle++
		}
	}

	return nil
}

func (p *Paginator) itemCount(ctx context.Context) (int, error) {
	cards, err := p.driver.FindAll(ctx, p.selectors.ProductCard)
	if err != nil {
		return 0, fmt.Errorf("failed to count listing items: %w", err)
	}
	return len(cards), nil
}

// harvestPage reads every product card on the settled page. A malformed
// card is skipped on its own; the rest of the page is unaffected.
func (p *Paginator) harvestPage(ctx context.Context, listingURL string, page int) []domain.Outcome[domain.RawItem] {
	cards, err := p.driver.FindAll(ctx, p.selectors.ProductCard)
	if err != nil {
		return []domain.Outcome[domain.RawItem]{
			domain.Skipped[domain.RawItem]("page", fmt.Sprintf("%s page %d", listingURL, page), err),
		}
	}

	outcomes := make([]domain.Outcome[domain.RawItem], 0, len(cards))
	for i, card := range cards {
		item, err := p.parseCard(card)
		if err != nil {
			outcomes = append(outcomes, domain.Skipped[domain.RawItem]("item", fmt.Sprintf("%s page %d item %d", listingURL, page, i+1), err))
			continue
		}
		outcomes = append(outcomes, domain.Ok(item))
	}

	log.Debugf("Listing %s page %d: %d cards", listingURL, page, len(cards))
	return outcomes
}

func (p *Paginator) parseCard(card automation.Element) (domain.RawItem, error) {
	item := domain.RawItem{}

	if titles := card.Find(p.selectors.ProductTitle); len(titles) > 0 {
		item.Title = titles[0].Text()
	}
	if prices := card.Find(p.selectors.ProductPrice); len(prices) > 0 {
		item.PriceText = prices[0].Text()
	}
	if sizes := card.Find(p.selectors.ProductPackageSize); len(sizes) > 0 {
		item.SizeText = sizes[0].Text()
	}
	if links := card.Find(p.selectors.ProductLink); len(links) > 0 {
		item.DetailURL = absoluteURL(p.baseURL, links[0].Attr("href"))
	}

	if item.Title == "" && item.DetailURL == "" {
		return domain.RawItem{}, fmt.Errorf("%w: card has neither title nor link", ErrMalformedRecord)
	}
	return item, nil
}

// gotoNextPage follows the next-page affordance. Returns false with no
// error when the affordance is absent, which is the normal last page.
func (p *Paginator) gotoNextPage(ctx context.Context) (bool, error) {
	nexts, err := p.driver.FindAll(ctx, p.selectors.NextPage)
	if err != nil {
		return false, fmt.Errorf("failed to look for next page link: %w", err)
	}
	if len(nexts) == 0 {
		return false, nil
	}

	if href := nexts[0].Attr("href"); href != "" {
		if err := p.driver.Navigate(ctx, absoluteURL(p.baseURL, href)); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := p.driver.Click(ctx, nexts[0]); err != nil {
		return false, fmt.Errorf("failed to click next page: %w", err)
	}
	if _, err := p.driver.WaitVisible(ctx, p.selectors.ProductCard, p.waitTimeout); err != nil {
		return false, err
	}
	return true, nil
}
