package analytics

import (
	"sort"

	"stockscope/internal/domain"
)

// performersShown caps the top/bottom performer lists.
const performersShown = 3

// SectorPerformance is the average YTD for one sector with the number
// of records that contributed to it.
type SectorPerformance struct {
	Sector string  `json:"sector"`
	AvgYTD float64 `json:"avg_ytd"`
	Count  int     `json:"count"`
}

// SummaryStats aggregates the full, unfiltered record set. Count == 0 is
// the "no data" sentinel; none of the derived fields are meaningful then.
type SummaryStats struct {
	Count            int                 `json:"count"`
	AvgYTD           float64             `json:"avg_ytd"`
	TopPerformers    []domain.StockRecord `json:"top_performers"`
	BottomPerformers []domain.StockRecord `json:"bottom_performers"`
	Sectors          []SectorPerformance `json:"sectors"`
}

// BestSector returns the sector with the highest average YTD, or ""
// when there is no data.
func (s SummaryStats) BestSector() string {
	if len(s.Sectors) == 0 {
		return ""
	}
	return s.Sectors[0].Sector
}

// Summarize computes summary statistics over records. An empty input
// short-circuits to the zero-value sentinel rather than dividing by
// zero.
func Summarize(records []domain.StockRecord) SummaryStats {
	if len(records) == 0 {
		return SummaryStats{}
	}

	stats := SummaryStats{Count: len(records)}

	var total float64
	sectorTotals := make(map[string]float64)
	sectorCounts := make(map[string]int)
	for _, r := range records {
		total += r.YTD
		sectorTotals[r.Sector] += r.YTD
		sectorCounts[r.Sector]++
	}
	stats.AvgYTD = total / float64(len(records))

	byYTD := Sort(records, SortSpec{Field: ByYTD, Descending: true})
	n := performersShown
	if n > len(byYTD) {
		n = len(byYTD)
	}
	stats.TopPerformers = append([]domain.StockRecord(nil), byYTD[:n]...)
	stats.BottomPerformers = make([]domain.StockRecord, 0, n)
	for i := len(byYTD) - 1; i >= len(byYTD)-n; i-- {
		stats.BottomPerformers = append(stats.BottomPerformers, byYTD[i])
	}

	for sector, sum := range sectorTotals {
		stats.Sectors = append(stats.Sectors, SectorPerformance{
			Sector: sector,
			AvgYTD: sum / float64(sectorCounts[sector]),
			Count:  sectorCounts[sector],
		})
	}
	sort.Slice(stats.Sectors, func(i, j int) bool {
		if stats.Sectors[i].AvgYTD != stats.Sectors[j].AvgYTD {
			return stats.Sectors[i].AvgYTD > stats.Sectors[j].AvgYTD
		}
		return stats.Sectors[i].Sector < stats.Sectors[j].Sector
	})

	return stats
}
