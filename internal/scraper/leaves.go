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

// LeafResolver harvests all subcategory2 leaves of a category in a single
// pass over its landing page. The naive approach navigates once per leaf;
// this one expands each subcategory's dropdown exactly once and reads every
// leaf link out of that expanded state, so page work scales with the
// subcategory count, not the leaf count.
type LeafResolver struct {
	driver      automation.Driver
	baseURL     string
	selectors   config.SelectorsConfig
	waitTimeout time.Duration
	tree        *domain.Tree
}

func NewLeafResolver(driver automation.Driver, site config.SiteConfig, waitTimeout time.Duration, tree *domain.Tree) *LeafResolver {
	return &LeafResolver{
		driver:      driver,
		baseURL:     site.BaseURL,
		selectors:   site.Selectors,
		waitTimeout: waitTimeout,
		tree:        tree,
	}
}

// ResolveLeaves expands each subcategory of subIdxs on the already-open
// category landing page and returns the leaf node indices it harvested.
// A subcategory whose menu fails to expand yields one skipped outcome and
// its siblings are still resolved.
func (r *LeafResolver) ResolveLeaves(ctx context.Context, categoryIdx int, subIdxs []int) []domain.Outcome[int] {
	category := r.tree.Node(categoryIdx)
	outcomes := make([]domain.Outcome[int], 0, len(subIdxs))

	for pos, subIdx := range subIdxs {
		sub := r.tree.Node(subIdx)

		leaves, err := r.expandAndHarvest(ctx, pos, subIdx)
		if err != nil {
			log.Warnf("Skipping subcategory %q under %q: %v", sub.Name, category.Name, err)
			outcomes = append(outcomes, domain.Skipped[int]("subcategory", sub.Name, err))
			continue
		}

		log.Debugf("Subcategory %q: %d leaves", sub.Name, len(leaves))
		for _, leafIdx := range leaves {
			outcomes = append(outcomes, domain.Ok(leafIdx))
		}
	}

	return outcomes
}

// expandAndHarvest clicks the pos-th subcategory toggle once and reads all
// leaf links from its expanded subtree.
func (r *LeafResolver) expandAndHarvest(ctx context.Context, pos, subIdx int) ([]int, error) {
	toggles, err := r.driver.FindAll(ctx, r.selectors.SubcategoryToggle)
	if err != nil {
		return nil, fmt.Errorf("failed to read subcategory toggles: %w", err)
	}
	if pos >= len(toggles) {
		return nil, fmt.Errorf("%w: toggle %d of %d", ErrMissingAffordance, pos, len(toggles))
	}

	if err := r.driver.Click(ctx, toggles[pos]); err != nil {
		return nil, fmt.Errorf("failed to expand subcategory menu: %w", err)
	}

	if _, err := r.driver.WaitVisible(ctx, r.selectors.LeafLink, r.waitTimeout); err != nil {
		return nil, fmt.Errorf("%w: leaf links after expansion: %v", ErrMissingAffordance, err)
	}

	// Re-read the menu: the expansion mutated the page, so the earlier
	// snapshot does not contain the leaf links.
	items, err := r.driver.FindAll(ctx, r.selectors.SubcategoryItem)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read subcategory menu: %w", err)
	}
	if pos >= len(items) {
		return nil, fmt.Errorf("%w: subcategory entry %d of %d", ErrMissingAffordance, pos, len(items))
	}

	anchors := items[pos].Find(r.selectors.LeafLink)
	if len(anchors) == 0 {
		return nil, fmt.Errorf("%w: expanded subcategory has no leaf links", ErrMissingAffordance)
	}

	var leaves []int
	for _, a := range anchors {
		name := a.Text()
		href := a.Attr("href")
		if name == "" || href == "" {
			continue
		}
		leaves = append(leaves, r.tree.Add(domain.CategoryNode{
			Name:   name,
			Level:  domain.LevelSubcategory2,
			URL:    absoluteURL(r.baseURL, href),
			Parent: subIdx,
		}))
	}

	return leaves, nil
}
