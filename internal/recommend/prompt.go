package recommend

import (
	"fmt"
	"strings"

	"stockscope/internal/analytics"
)

// BuildPrompt renders summary statistics into the analysis prompt sent
// to the AI provider. The layout mirrors the reports users already know:
// top and bottom performers followed by a sector performance table.
func BuildPrompt(stats analytics.SummaryStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Based on the following NASDAQ-100 stock data, provide investment recommendations:\n\n")

	fmt.Fprintf(&b, "Top %d Performers (YTD):\n", len(stats.TopPerformers))
	fmt.Fprintf(&b, "%-8s %-32s %8s  %s\n", "symbol", "name", "ytd", "sector")
	for _, r := range stats.TopPerformers {
		fmt.Fprintf(&b, "%-8s %-32s %8.2f  %s\n", r.Symbol, r.Name, r.YTD, r.Sector)
	}

	fmt.Fprintf(&b, "\nBottom %d Performers (YTD):\n", len(stats.BottomPerformers))
	fmt.Fprintf(&b, "%-8s %-32s %8s  %s\n", "symbol", "name", "ytd", "sector")
	for _, r := range stats.BottomPerformers {
		fmt.Fprintf(&b, "%-8s %-32s %8.2f  %s\n", r.Symbol, r.Name, r.YTD, r.Sector)
	}

	fmt.Fprintf(&b, "\nSector Performance (Average YTD %%):\n")
	fmt.Fprintf(&b, "%-24s %8s %6s\n", "sector", "avg_ytd", "count")
	for _, s := range stats.Sectors {
		fmt.Fprintf(&b, "%-24s %8.2f %6d\n", s.Sector, s.AvgYTD, s.Count)
	}

	b.WriteString(`
Please provide:
1. A brief market overview based on this data
2. 3-5 specific stock recommendations with rationale
3. Sector-based investment strategy
`)

	return b.String()
}
