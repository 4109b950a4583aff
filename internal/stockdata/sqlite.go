package stockdata

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"stockscope/internal/domain"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS stocks (
	symbol         TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	ytd            REAL NOT NULL,
	sector         TEXT NOT NULL,
	industry       TEXT NOT NULL,
	market_cap     TEXT NOT NULL,
	pe_ratio       TEXT NOT NULL,
	dividend_yield TEXT NOT NULL,
	price          REAL NOT NULL
);`

// SnapshotStore caches the most recently fetched stock set in SQLite,
// replacing the original application's pickled data frame cache.
type SnapshotStore struct {
	db *sql.DB
}

// OpenSnapshotStore opens (or creates) the SQLite database at dbPath and
// ensures the schema exists.
func OpenSnapshotStore(dbPath string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating stocks table: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Replace swaps the cached snapshot for the given records in a single
// transaction.
func (s *SnapshotStore) Replace(ctx context.Context, records []domain.StockRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stocks`); err != nil {
		return fmt.Errorf("clearing stocks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stocks (symbol, name, ytd, sector, industry, market_cap, pe_ratio, dividend_yield, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Symbol, r.Name, r.YTD, r.Sector, r.Industry,
			r.MarketCap, r.PERatio, r.DividendYield, r.Price,
		); err != nil {
			return fmt.Errorf("inserting %s: %w", r.Symbol, err)
		}
	}

	return tx.Commit()
}

// All returns the cached snapshot ordered by symbol.
func (s *SnapshotStore) All(ctx context.Context) ([]domain.StockRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, name, ytd, sector, industry, market_cap, pe_ratio, dividend_yield, price
		FROM stocks ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.StockRecord
	for rows.Next() {
		var r domain.StockRecord
		if err := rows.Scan(
			&r.Symbol, &r.Name, &r.YTD, &r.Sector, &r.Industry,
			&r.MarketCap, &r.PERatio, &r.DividendYield, &r.Price,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of cached records.
func (s *SnapshotStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stocks`).Scan(&n)
	return n, err
}
