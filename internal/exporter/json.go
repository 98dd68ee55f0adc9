package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"freshmart/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// JSONSink writes each run to its own timestamped file under a directory.
type JSONSink struct {
	outputDir string
}

func NewJSONSink(outputDir string) *JSONSink {
	return &JSONSink{outputDir: outputDir}
}

func (s *JSONSink) Write(ctx context.Context, doc *domain.ExportDocument) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.outputDir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("catalog_%s.json", timestamp))

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export document: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}

	log.Infof("Exported %d products to %s", len(doc.Products), path)
	return nil
}
