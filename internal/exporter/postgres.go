package exporter

import (
	"context"
	"fmt"

	"freshmart/scraper/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// PostgresSink persists runs and their products into Postgres. Products are
// keyed by (run, url) so re-writing the same document is idempotent.
type PostgresSink struct {
	db *pgxpool.Pool
}

func NewPostgresSink(db *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Write(ctx context.Context, doc *domain.ExportDocument) error {
	var runID int64
	err := s.db.QueryRow(ctx, `
	INSERT INTO runs (extraction_date, categories, statistics)
	VALUES ($1, $2, $3)
	RETURNING id`,
		doc.ExtractionDate, doc.CategoriesProcessed, doc.Statistics,
	).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, product := range doc.Products {
		_, err := s.db.Exec(ctx, `
		INSERT INTO products (run_id, product_url, title, regular_price, package_size, category, subcategory, subcategory2)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id, product_url)
		DO UPDATE SET title = $3, regular_price = $4, package_size = $5, category = $6, subcategory = $7, subcategory2 = $8`,
			runID, product.ProductURL, product.Title, product.RegularPrice,
			product.PackageSize, product.Category, product.Subcategory, product.Subcategory2,
		)
		if err != nil {
			return fmt.Errorf("failed to save product %s: %w", product.ProductURL, err)
		}
	}

	log.Infof("Exported run %d with %d products to Postgres", runID, len(doc.Products))
	return nil
}
