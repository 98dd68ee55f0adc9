package scraper

import (
	"context"
	"fmt"
	"time"

	"freshmart/scraper/internal/automation"
	"freshmart/scraper/internal/config"
)

// fakeDriver serves HTML fixtures through the automation surface and counts
// every interaction, so tests can assert the navigation-minimizing
// invariants as well as the harvested output.
type fakeDriver struct {
	pages       map[string]string
	currentHTML string

	navigations []string
	clicks      []string
	scrolls     int

	// onClick and onScroll let a test mutate the current page the way the
	// real site would (menu expansion, lazy loading).
	onClick  func(d *fakeDriver, selector string, index int)
	onScroll func(d *fakeDriver)
}

func newFakeDriver(pages map[string]string) *fakeDriver {
	return &fakeDriver{pages: pages}
}

func (d *fakeDriver) root() (*automation.HTMLElement, error) {
	return automation.Snapshot(d.currentHTML)
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	d.navigations = append(d.navigations, url)
	html, ok := d.pages[url]
	if !ok {
		return fmt.Errorf("%w: no page at %s", automation.ErrTimeout, url)
	}
	d.currentHTML = html
	return nil
}

func (d *fakeDriver) FindAll(ctx context.Context, selector string) ([]automation.Element, error) {
	root, err := d.root()
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

func (d *fakeDriver) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (automation.Element, error) {
	root, err := d.root()
	if err != nil {
		return nil, err
	}
	matches := root.Select(selector)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", automation.ErrTimeout, selector)
	}
	return matches[0], nil
}

func (d *fakeDriver) ScrollToBottom(ctx context.Context) error {
	d.scrolls++
	if d.onScroll != nil {
		d.onScroll(d)
	}
	return nil
}

func (d *fakeDriver) Click(ctx context.Context, el automation.Element) error {
	handle, ok := el.(*automation.HTMLElement)
	if !ok || handle.Selector == "" {
		return fmt.Errorf("element is not clickable")
	}
	d.clicks = append(d.clicks, fmt.Sprintf("%s[%d]", handle.Selector, handle.Index))
	if d.onClick != nil {
		d.onClick(d, handle.Selector, handle.Index)
	}
	return nil
}

func (d *fakeDriver) Close() error {
	return nil
}

// testSite returns the selector set the fixtures in this package use.
func testSite() config.SiteConfig {
	return config.SiteConfig{
		BaseURL: "https://shop.test",
		Selectors: config.SelectorsConfig{
			CategoryMenu:       "nav.category-nav",
			CategoryItem:       "nav.category-nav a.category-link",
			SubcategoryItem:    "ul.subcategory-list > li",
			SubcategoryToggle:  "a.subcategory-toggle",
			LeafLink:           "ul.subcategory2-list a",
			ProductCard:        "div.product-card",
			ProductTitle:       ".product-title",
			ProductPrice:       ".regular-price",
			ProductPackageSize: ".product-package-size",
			ProductLink:        "a.product-link",
			NextPage:           "a.pagination-next",
			ConsentButton:      "button#accept-cookies",
		},
	}
}
