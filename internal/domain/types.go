// Package domain defines the core data types shared between the server,
// the storage layer, and the API surface.
package domain

import "time"

// StockRecord is a single row of the NASDAQ-100 data set. MarketCap,
// PERatio, and DividendYield stay strings because the source CSV mixes
// numbers with placeholders like "Unknown".
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

// ResultFile describes one generated recommendation report on disk.
// Name is unique within the results directory.
type ResultFile struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
	Size int64     `json:"size"`
}

// TaskInfo is a snapshot of the server-global background task slot.
// Task is empty when no task is running.
type TaskInfo struct {
	Task     string `json:"task"`
	Progress int    `json:"progress"`
	Total    int    `json:"total"`
	Message  string `json:"message"`
	Complete bool   `json:"complete"`
}

// TaskErrorPrefix marks a completion message that reports a failure
// rather than a result. Clients branch on it after Complete turns true.
const TaskErrorPrefix = "Error: "
