package pipeline

import (
	"context"
	"fmt"
	"time"

	"freshmart/scraper/internal/domain"
	"freshmart/scraper/internal/exporter"
	"freshmart/scraper/internal/scraper"

	log "github.com/sirupsen/logrus"
)

// Pipeline sequences category discovery, batch leaf resolution, listing
// traversal and record building over one shared browser session. Every
// failure below setup level is caught at its own granularity and logged
// into the run statistics; processing always continues with the next
// sibling unit.
type Pipeline struct {
	extractor *scraper.TreeExtractor
	resolver  *scraper.LeafResolver
	paginator *scraper.Paginator
	sink      exporter.Sink
}

func New(extractor *scraper.TreeExtractor, resolver *scraper.LeafResolver, paginator *scraper.Paginator, sink exporter.Sink) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		resolver:  resolver,
		paginator: paginator,
		sink:      sink,
	}
}

// Run walks the requested categories end to end and hands the finished
// document to the sink. The document is produced even when every stage
// failed; only the export itself can return an error alongside it.
func (p *Pipeline) Run(ctx context.Context, targets []string) (*domain.ExportDocument, error) {
	stats := domain.RunStatistics{}
	products := make([]domain.ProductRecord, 0)
	tree := p.extractor.Tree

	catIdxs, warnings, err := p.extractor.ListCategories(ctx, targets)
	if err != nil {
		log.Errorf("Category discovery failed: %v", err)
		stats.RecordError("categories", "site root", err.Error())
	}
	for _, name := range warnings {
		stats.RecordError("categories", name, "requested category not found on site")
	}

	for _, catIdx := range catIdxs {
		category := tree.Node(catIdx)
		log.Infof("Processing category %q", category.Name)

		subIdxs, err := p.extractor.ListSubcategories(ctx, catIdx)
		if err != nil {
			log.Warnf("Skipping category %q: %v", category.Name, err)
			stats.RecordError("category", category.Name, err.Error())
			continue
		}

		skippedSubs := 0
		var leafIdxs []int
		for _, outcome := range p.resolver.ResolveLeaves(ctx, catIdx, subIdxs) {
			if outcome.IsSkipped() {
				stats.Errors = append(stats.Errors, *outcome.Skip)
				skippedSubs++
				continue
			}
			leafIdxs = append(leafIdxs, outcome.Value)
		}
		stats.SubcategoriesProcessed += len(subIdxs) - skippedSubs

		for _, leafIdx := range leafIdxs {
			leaf := tree.Node(leafIdx)
			leafCtx := tree.ContextOf(leafIdx)

			built := p.processLeaf(ctx, leaf, leafCtx, &stats)
			products = append(products, built...)
			stats.LeavesProcessed++
		}

		stats.CategoriesProcessed++
	}

	stats.TotalProducts = len(products)

	doc := &domain.ExportDocument{
		ExtractionDate:      time.Now().Format(time.RFC3339),
		CategoriesProcessed: requestedOrFound(targets, tree, catIdxs),
		Statistics:          stats,
		Products:            products,
	}

	log.Infof("Run finished: %d categories, %d subcategories, %d leaves, %d products, %d errors",
		stats.CategoriesProcessed, stats.SubcategoriesProcessed, stats.LeavesProcessed,
		stats.TotalProducts, len(stats.Errors))

	if err := p.sink.Write(ctx, doc); err != nil {
		return doc, fmt.Errorf("failed to export run: %w", err)
	}

	return doc, nil
}

// processLeaf runs the paginator over one leaf listing and builds records
// from its items. Item failures drop the item only; a failed listing drops
// the leaf only.
func (p *Pipeline) processLeaf(ctx context.Context, leaf domain.CategoryNode, leafCtx domain.LeafContext, stats *domain.RunStatistics) []domain.ProductRecord {
	outcomes, err := p.paginator.Collect(ctx, leaf.URL)
	if err != nil {
		log.Warnf("Skipping leaf %q: %v", leaf.Name, err)
		stats.RecordError("leaf", fmt.Sprintf("%s (%s)", leaf.Name, leaf.URL), err.Error())
		return nil
	}

	var built []domain.ProductRecord
	for _, outcome := range outcomes {
		if outcome.IsSkipped() {
			stats.Errors = append(stats.Errors, *outcome.Skip)
			continue
		}

		record, err := scraper.BuildRecord(outcome.Value, leafCtx)
		if err != nil {
			stats.RecordError("record", outcome.Value.DetailURL, err.Error())
			continue
		}
		built = append(built, record)
	}

	log.Debugf("Leaf %q: %d records", leaf.Name, len(built))
	return built
}

// requestedOrFound prefers the caller's allow-list for the export header
// and falls back to the discovered category names on unrestricted runs.
func requestedOrFound(targets []string, tree *domain.Tree, catIdxs []int) []string {
	if len(targets) > 0 {
		return targets
	}
	names := make([]string, 0, len(catIdxs))
	for _, idx := range catIdxs {
		names = append(names, tree.Node(idx).Name)
	}
	return names
}
