// internal/workers/recommendation/extract-items/models.go
package extractitems

import "purchase-advisor/internal/models"

const (
	SourceExtracted = "extracted"
	SourceNone      = "none"
)

type Input struct {
	Prompt string `json:"prompt"`
}

type Output struct {
	Items  []models.ParsedItem `json:"items"`
	Source string              `json:"extractionSource"`
}
