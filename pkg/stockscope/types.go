// Package stockscope provides a Go client SDK for the stockscope API:
// report listing and viewing with an in-memory content cache, background
// task polling, and slug-based report resolution.
package stockscope

import "time"

// ResultFile describes one generated recommendation report.
type ResultFile struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
	Size int64     `json:"size"`
}

// TaskInfo is a snapshot of the server's background task slot.
type TaskInfo struct {
	Task     string `json:"task"`
	Progress int    `json:"progress"`
	Total    int    `json:"total"`
	Message  string `json:"message"`
	Complete bool   `json:"complete"`
}

// StockRecord is one row of the stock data set.
type StockRecord struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	YTD           float64 `json:"ytd"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	MarketCap     string  `json:"market_cap"`
	PERatio       string  `json:"pe_ratio"`
	DividendYield string  `json:"dividend_yield"`
	Price         float64 `json:"price"`
}

// ContentEntry is a cached report body with optional file metadata.
// Metadata is nil when the listing fetch failed; the content is still
// valid then.
type ContentEntry struct {
	Content  string
	Metadata *ResultFile
}

// TaskResult is the outcome of awaiting a background task: the final
// task snapshot and, for successful runs, the loaded report.
type TaskResult struct {
	Info     TaskInfo
	Filename string
	Entry    *ContentEntry
}
