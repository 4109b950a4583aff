// Package httpapi provides the REST API for the stockscope dashboard:
// stock data access, background task control, and recommendation report
// viewing, in the JSON shapes the frontend consumes.
package httpapi

import (
	"stockscope/internal/domain"
)

// StatusResponse reports API liveness.
type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// DataStatusResponse reports whether a stock snapshot is available.
type DataStatusResponse struct {
	HasData bool `json:"has_data"`
}

// FetchDataRequest is the body of POST /api/fetch-data.
type FetchDataRequest struct {
	MaxStocks   int  `json:"max_stocks"`
	UseMockData bool `json:"use_mock_data"`
}

// TaskStartResponse acknowledges a task start.
type TaskStartResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Task    string `json:"task,omitempty"`
}

// TaskConflictResponse is the 409 body when the task slot is occupied.
// TaskInfo carries the live task so clients can join its progress.
type TaskConflictResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	TaskInfo domain.TaskInfo `json:"task_info"`
}

// ResultsResponse lists generated recommendation reports.
type ResultsResponse struct {
	Files []domain.ResultFile `json:"files"`
}

// ViewResponse returns one report's content with optional metadata.
type ViewResponse struct {
	Success  bool               `json:"success"`
	Content  string             `json:"content,omitempty"`
	Metadata *domain.ResultFile `json:"metadata,omitempty"`
	Message  string             `json:"message,omitempty"`
}

// StocksResponse returns the full stock set.
type StocksResponse struct {
	Success bool                 `json:"success"`
	Stocks  []domain.StockRecord `json:"stocks"`
	Count   int                  `json:"count"`
}

// SnapshotsResponse lists archived snapshot dates.
type SnapshotsResponse struct {
	Dates []string `json:"dates"`
}

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
