package dto

import (
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
)

// EditEventRequest is the body of POST /events, sent by a host when a sheet
// is edited.
type EditEventRequest struct {
	SheetName string `json:"sheet_name"`
	RowIndex  int    `json:"row_index"`
}

// TrackerData represents the tracker log in JSON:API format.
type TrackerData struct {
	Type       string                    `json:"type"`
	ID         string                    `json:"id"`
	Attributes jsonapi.TrackerAttributes `json:"attributes"`
}

// TrackerResponse represents the tracker log.
type TrackerResponse struct {
	Data TrackerData `json:"data"`
}

// SyncAttributes describes one batch sync run.
type SyncAttributes struct {
	Entries  int `json:"entries"`
	Rows     int `json:"rows"`
	Ranges   int `json:"ranges"`
	Problems int `json:"problems"`
	Skipped  int `json:"skipped"`
}

// SyncData represents a sync run in JSON:API format.
type SyncData struct {
	Type       string         `json:"type"`
	Attributes SyncAttributes `json:"attributes"`
}

// SyncResponse is returned by POST /sync.
type SyncResponse struct {
	Data SyncData `json:"data"`
}
