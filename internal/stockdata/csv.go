// Package stockdata loads the NASDAQ-100 data set from CSV and persists
// fetched snapshots to SQLite plus a dated Parquet archive.
package stockdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"stockscope/internal/domain"
)

// SymbolsFile and MockDataFile are the well-known data files under the
// data directory.
const (
	SymbolsFile  = "nasdaq100.csv"
	MockDataFile = "nasdaq100_mock_data.csv"
)

// LoadSymbols reads the "symbol" column from a CSV file with a header
// row. When the header lacks a "symbol" column the first column is used.
func LoadSymbols(path string) ([]string, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := 0
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), "symbol") {
			col = i
			break
		}
	}

	symbols := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(row[col]))
		if sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return symbols, nil
}

// LoadRecords reads the full mock data CSV into stock records. Columns
// are resolved by header name so column order does not matter.
func LoadRecords(path string) ([]domain.StockRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]domain.StockRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := domain.StockRecord{
			Symbol:        strings.ToUpper(field(row, "symbol")),
			Name:          field(row, "name"),
			Sector:        field(row, "sector"),
			Industry:      field(row, "industry"),
			MarketCap:     field(row, "market_cap"),
			PERatio:       field(row, "pe_ratio"),
			DividendYield: field(row, "dividend_yield"),
		}
		if r.Symbol == "" {
			continue
		}
		r.YTD, _ = strconv.ParseFloat(field(row, "ytd"), 64)
		r.Price, _ = strconv.ParseFloat(field(row, "price"), 64)
		records = append(records, r)
	}
	return records, nil
}

// FindRecord returns the record for symbol, or a placeholder row when
// the symbol is absent from the data set.
func FindRecord(records []domain.StockRecord, symbol string) domain.StockRecord {
	symbol = strings.ToUpper(symbol)
	for _, r := range records {
		if r.Symbol == symbol {
			return r
		}
	}
	return domain.StockRecord{
		Symbol:        symbol,
		Name:          symbol,
		Sector:        "Unknown",
		Industry:      "Unknown",
		MarketCap:     "Unknown",
		PERatio:       "Unknown",
		DividendYield: "Unknown",
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV %s: %w", path, err)
	}
	return rows, nil
}
