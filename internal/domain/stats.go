package domain

// StageError records one non-fatal failure with enough context to debug the
// run afterwards.
type StageError struct {
	Stage   string `json:"stage"`
	Context string `json:"context"`
	Message string `json:"message"`
}

// RunStatistics accumulates counters over one run. Only the orchestrator
// mutates it; Errors is append-only.
type RunStatistics struct {
	CategoriesProcessed    int          `json:"categories_processed"`
	SubcategoriesProcessed int          `json:"subcategories_processed"`
	LeavesProcessed        int          `json:"leaves_processed"`
	TotalProducts          int          `json:"total_products"`
	Errors                 []StageError `json:"errors"`
}

// RecordError appends a stage failure to the run log.
func (s *RunStatistics) RecordError(stage, context, message string) {
	s.Errors = append(s.Errors, StageError{Stage: stage, Context: context, Message: message})
}

// ExportDocument is the artifact handed to the exporter at the end of a run.
type ExportDocument struct {
	ExtractionDate      string          `json:"extraction_date"`
	CategoriesProcessed []string        `json:"categories_processed"`
	Statistics          RunStatistics   `json:"statistics"`
	Products            []ProductRecord `json:"products"`
}
