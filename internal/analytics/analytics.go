// Package analytics derives filtered, sorted, and aggregated views from
// a flat in-memory list of stock records. All functions are pure: the
// input slice is never mutated.
package analytics

import (
	"sort"
	"strings"

	"stockscope/internal/domain"
)

// AllSectors is the sentinel sector filter that matches every record.
const AllSectors = "All"

// Filter returns the records passing both the sector filter and the
// search term. Sector is an exact match unless it is AllSectors or
// empty. Search is a case-insensitive substring match against symbol,
// name, and industry; the two conditions compose with AND.
func Filter(records []domain.StockRecord, sector, search string) []domain.StockRecord {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.StockRecord, 0, len(records))
	for _, r := range records {
		if sector != "" && sector != AllSectors && r.Sector != sector {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r domain.StockRecord, lowered string) bool {
	return strings.Contains(strings.ToLower(r.Symbol), lowered) ||
		strings.Contains(strings.ToLower(r.Name), lowered) ||
		strings.Contains(strings.ToLower(r.Industry), lowered)
}

// Field names a sortable column of the stock table.
type Field string

const (
	BySymbol   Field = "symbol"
	ByName     Field = "name"
	ByYTD      Field = "ytd"
	BySector   Field = "sector"
	ByIndustry Field = "industry"
	ByPrice    Field = "price"
)

// SortSpec is the single active sort field plus direction.
type SortSpec struct {
	Field      Field
	Descending bool
}

// Toggle selects f as the active sort field. Selecting the field that is
// already active flips the direction; selecting a different field resets
// to ascending.
func (s *SortSpec) Toggle(f Field) {
	if s.Field == f {
		s.Descending = !s.Descending
		return
	}
	s.Field = f
	s.Descending = false
}

// Sort returns a copy of records ordered by the given spec. YTD and
// price compare numerically; every other field compares as a
// case-insensitive string.
func Sort(records []domain.StockRecord, spec SortSpec) []domain.StockRecord {
	out := make([]domain.StockRecord, len(records))
	copy(out, records)

	less := lessFunc(spec.Field)
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(f Field) func(a, b domain.StockRecord) bool {
	switch f {
	case ByYTD:
		return func(a, b domain.StockRecord) bool { return a.YTD < b.YTD }
	case ByPrice:
		return func(a, b domain.StockRecord) bool { return a.Price < b.Price }
	case ByName:
		return func(a, b domain.StockRecord) bool { return lessString(a.Name, b.Name) }
	case BySector:
		return func(a, b domain.StockRecord) bool { return lessString(a.Sector, b.Sector) }
	case ByIndustry:
		return func(a, b domain.StockRecord) bool { return lessString(a.Industry, b.Industry) }
	default:
		return func(a, b domain.StockRecord) bool { return lessString(a.Symbol, b.Symbol) }
	}
}

func lessString(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
