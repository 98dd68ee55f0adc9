package exporter

import (
	"context"

	"freshmart/scraper/internal/domain"
)

// Sink persists a finished run. The pipeline builds the document once and
// hands it over; what "persisted" means is the sink's business.
type Sink interface {
	Write(ctx context.Context, doc *domain.ExportDocument) error
}
