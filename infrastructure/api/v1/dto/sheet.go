package dto

import (
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
)

// SheetData represents sheet data in JSON:API format.
type SheetData struct {
	Type       string                  `json:"type"`
	ID         string                  `json:"id"`
	Attributes jsonapi.SheetAttributes `json:"attributes"`
}

// SheetListResponse represents the sheets of the workbook.
type SheetListResponse struct {
	Data []SheetData `json:"data"`
}

// RowData represents one row in JSON:API format.
type RowData struct {
	Type       string                `json:"type"`
	ID         string                `json:"id"`
	Attributes jsonapi.RowAttributes `json:"attributes"`
}

// RowListResponse represents a range of rows.
type RowListResponse struct {
	Data []RowData    `json:"data"`
	Meta jsonapi.Meta `json:"meta,omitempty"`
}

// RowResponse represents a single written row.
type RowResponse struct {
	Data RowData `json:"data"`
}

// RowWriteRequest is the body of POST and PUT on sheet rows.
type RowWriteRequest struct {
	Cells []string `json:"cells"`
}
