package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freshmart/scraper/internal/automation"
	"freshmart/scraper/internal/config"
	"freshmart/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// TreeExtractor reads the site's three-level taxonomy through the
// automation driver. It owns the node arena; every other stage refers to
// nodes by index.
type TreeExtractor struct {
	driver      automation.Driver
	baseURL     string
	selectors   config.SelectorsConfig
	waitTimeout time.Duration

	Tree *domain.Tree
}

func NewTreeExtractor(driver automation.Driver, site config.SiteConfig, waitTimeout time.Duration) *TreeExtractor {
	return &TreeExtractor{
		driver:      driver,
		baseURL:     site.BaseURL,
		selectors:   site.Selectors,
		waitTimeout: waitTimeout,
		Tree:        &domain.Tree{},
	}
}

// ListCategories navigates to the site root, reads the top-level category
// menu in display order and filters it against the allow-list. Requested
// names that match nothing on the site come back as warnings; they never
// abort the run.
func (e *TreeExtractor) ListCategories(ctx context.Context, allow []string) ([]int, []string, error) {
	if err := e.driver.Navigate(ctx, e.baseURL); err != nil {
		return nil, nil, fmt.Errorf("failed to open site root: %w", err)
	}

	if _, err := e.driver.WaitVisible(ctx, e.selectors.CategoryMenu, e.waitTimeout); err != nil {
		return nil, nil, fmt.Errorf("%w: category menu %q: %v", ErrMissingAffordance, e.selectors.CategoryMenu, err)
	}

	items, err := e.driver.FindAll(ctx, e.selectors.CategoryItem)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read category menu: %w", err)
	}

	wanted := make(map[string]bool, len(allow))
	for _, name := range allow {
		wanted[normalizeName(name)] = false
	}

	var indices []int
	for _, item := range items {
		name := item.Text()
		if name == "" {
			continue
		}
		if len(wanted) > 0 {
			key := normalizeName(name)
			if _, ok := wanted[key]; !ok {
				continue
			}
			wanted[key] = true
		}

		idx := e.Tree.Add(domain.CategoryNode{
			Name:   name,
			Level:  domain.LevelCategory,
			URL:    absoluteURL(e.baseURL, item.Attr("href")),
			Parent: domain.NoParent,
		})
		indices = append(indices, idx)
	}

	var warnings []string
	for _, name := range allow {
		if !wanted[normalizeName(name)] {
			log.Warnf("Requested category %q not found on site", name)
			warnings = append(warnings, name)
		}
	}

	log.Infof("Found %d categories (%d requested)", len(indices), len(allow))
	return indices, warnings, nil
}

// ListSubcategories opens the category landing page and reads its
// subcategory menu. This is the only navigation performed for the whole
// category; leaf resolution works off the page state it leaves behind.
func (e *TreeExtractor) ListSubcategories(ctx context.Context, categoryIdx int) ([]int, error) {
	category := e.Tree.Node(categoryIdx)

	if err := e.driver.Navigate(ctx, category.URL); err != nil {
		return nil, fmt.Errorf("failed to open category %q: %w", category.Name, err)
	}

	if _, err := e.driver.WaitVisible(ctx, e.selectors.SubcategoryItem, e.waitTimeout); err != nil {
		return nil, fmt.Errorf("%w: subcategory menu for %q: %v", ErrMissingAffordance, category.Name, err)
	}

	items, err := e.driver.FindAll(ctx, e.selectors.SubcategoryItem)
	if err != nil {
		return nil, fmt.Errorf("failed to read subcategory menu for %q: %w", category.Name, err)
	}

	var indices []int
	for _, item := range items {
		name := item.Text()
		if toggles := item.Find(e.selectors.SubcategoryToggle); len(toggles) > 0 {
			name = toggles[0].Text()
		}
		if name == "" {
			continue
		}

		idx := e.Tree.Add(domain.CategoryNode{
			Name:   name,
			Level:  domain.LevelSubcategory,
			Parent: categoryIdx,
		})
		indices = append(indices, idx)
	}

	log.Infof("Category %q: %d subcategories", category.Name, len(indices))
	return indices, nil
}

// normalizeName folds case and collapses whitespace so allow-list entries
// match the site's displayed names loosely.
func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
