package model

import "time"

// ImportBatch is a candidate set of reference records extracted from an
// uploaded document, pending admin confirmation.
type ImportBatch struct {
	ID           string             `json:"id"`
	Motorcycles  []*Motorcycle      `json:"motorcycles"`
	Coefficients []*CoefficientRule `json:"coefficients"`
	// SourceDocument references the archived upload, empty when archiving
	// is disabled or failed.
	SourceDocument string    `json:"source_document,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsEmpty reports whether the batch carries no record at all.
func (b *ImportBatch) IsEmpty() bool {
	return b == nil || len(b.Motorcycles)+len(b.Coefficients) == 0
}
