package stockdata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"stockscope/internal/domain"
)

// snapshotRecord is the Parquet schema for one archived stock row.
type snapshotRecord struct {
	Symbol        string  `parquet:"symbol"`
	Name          string  `parquet:"name"`
	YTD           float64 `parquet:"ytd"`
	Sector        string  `parquet:"sector"`
	Industry      string  `parquet:"industry"`
	MarketCap     string  `parquet:"market_cap"`
	PERatio       string  `parquet:"pe_ratio"`
	DividendYield string  `parquet:"dividend_yield"`
	Price         float64 `parquet:"price"`
}

// Archive keeps one Parquet file per fetch date under
// <DataDir>/snapshots/<YYYY-MM-DD>.parquet, giving the data-fetch task a
// durable history of what was served each day.
type Archive struct {
	DataDir string
}

// NewArchive creates an Archive rooted at the given data directory.
func NewArchive(dataDir string) *Archive {
	return &Archive{DataDir: dataDir}
}

func (a *Archive) snapshotPath(date string) string {
	return filepath.Join(a.DataDir, "snapshots", date+".parquet")
}

// WriteSnapshot writes the full record set for a date, replacing any
// existing file for the same date.
func (a *Archive) WriteSnapshot(date string, records []domain.StockRecord) error {
	rows := make([]snapshotRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, snapshotRecord{
			Symbol:        r.Symbol,
			Name:          r.Name,
			YTD:           r.YTD,
			Sector:        r.Sector,
			Industry:      r.Industry,
			MarketCap:     r.MarketCap,
			PERatio:       r.PERatio,
			DividendYield: r.DividendYield,
			Price:         r.Price,
		})
	}

	path := a.snapshotPath(date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("writing snapshot for %s: %w", date, err)
	}
	return nil
}

// ReadSnapshot loads the record set archived for a date.
func (a *Archive) ReadSnapshot(date string) ([]domain.StockRecord, error) {
	rows, err := parquet.ReadFile[snapshotRecord](a.snapshotPath(date))
	if err != nil {
		return nil, err
	}

	records := make([]domain.StockRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.StockRecord{
			Symbol:        r.Symbol,
			Name:          r.Name,
			YTD:           r.YTD,
			Sector:        r.Sector,
			Industry:      r.Industry,
			MarketCap:     r.MarketCap,
			PERatio:       r.PERatio,
			DividendYield: r.DividendYield,
			Price:         r.Price,
		})
	}
	return records, nil
}

// ListSnapshots returns the archived dates in chronological order.
func (a *Archive) ListSnapshots() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.DataDir, "snapshots"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".parquet") {
			continue
		}
		date := strings.TrimSuffix(e.Name(), ".parquet")
		if len(date) == 10 && date[4] == '-' && date[7] == '-' {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}
