package analytics

import (
	"testing"

	"stockscope/internal/domain"
)

func sampleRecords() []domain.StockRecord {
	return []domain.StockRecord{
		{Symbol: "AAPL", Name: "Apple Inc.", YTD: 12.5, Sector: "Technology", Industry: "Consumer Electronics", Price: 190},
		{Symbol: "MSFT", Name: "Microsoft Corp.", YTD: 20.1, Sector: "Technology", Industry: "Software", Price: 410},
		{Symbol: "AMGN", Name: "Amgen Inc.", YTD: -4.2, Sector: "Healthcare", Industry: "Biotechnology", Price: 280},
		{Symbol: "PEP", Name: "PepsiCo Inc.", YTD: 1.3, Sector: "Consumer Defensive", Industry: "Beverages", Price: 170},
		{Symbol: "NVDA", Name: "NVIDIA Corp.", YTD: 55.0, Sector: "Technology", Industry: "Semiconductors", Price: 900},
	}
}

func TestFilterBySector(t *testing.T) {
	got := Filter(sampleRecords(), "Technology", "")
	if len(got) != 3 {
		t.Fatalf("Filter returned %d records, want 3", len(got))
	}
	for _, r := range got {
		if r.Sector != "Technology" {
			t.Errorf("unexpected sector %q", r.Sector)
		}
	}
}

func TestFilterAllSectorsSentinel(t *testing.T) {
	if got := Filter(sampleRecords(), AllSectors, ""); len(got) != 5 {
		t.Errorf("Filter with %q returned %d records, want 5", AllSectors, len(got))
	}
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	got := Filter(sampleRecords(), "", "semicond")
	if len(got) != 1 || got[0].Symbol != "NVDA" {
		t.Errorf("Filter by industry substring = %v", got)
	}
}

func TestFilterComposesWithAnd(t *testing.T) {
	records := []domain.StockRecord{
		{Symbol: "AAA", Sector: "Tech"},
		{Symbol: "BBB", Sector: "Health"},
	}
	// BBB exists but is outside the sector filter: AND semantics yield
	// nothing.
	if got := Filter(records, "Tech", "BBB"); len(got) != 0 {
		t.Errorf("Filter = %v, want empty", got)
	}
}

func TestSortNumeric(t *testing.T) {
	got := Sort(sampleRecords(), SortSpec{Field: ByYTD})
	if got[0].Symbol != "AMGN" || got[len(got)-1].Symbol != "NVDA" {
		t.Errorf("ascending YTD order wrong: first %s last %s", got[0].Symbol, got[len(got)-1].Symbol)
	}
}

func TestSortToggleReversesOrder(t *testing.T) {
	records := sampleRecords()

	var spec SortSpec
	spec.Toggle(ByYTD)
	asc := Sort(records, spec)

	spec.Toggle(ByYTD)
	desc := Sort(records, spec)

	for i := range asc {
		if asc[i].Symbol != desc[len(desc)-1-i].Symbol {
			t.Fatalf("toggled sort is not the exact reverse at %d: %s vs %s",
				i, asc[i].Symbol, desc[len(desc)-1-i].Symbol)
		}
	}
}

func TestSortToggleResetsOnNewField(t *testing.T) {
	spec := SortSpec{Field: ByYTD, Descending: true}
	spec.Toggle(ByName)
	if spec.Field != ByName || spec.Descending {
		t.Errorf("Toggle to new field = %+v, want ascending name", spec)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	first := records[0].Symbol
	Sort(records, SortSpec{Field: ByYTD, Descending: true})
	if records[0].Symbol != first {
		t.Error("Sort mutated its input")
	}
}
