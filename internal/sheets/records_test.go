package sheets

import (
	"testing"
)

func TestRecords(t *testing.T) {
	grid := [][]string{
		{"Matchup", "Favorite", "Line"},
		{"A vs B", "A", "7.0"},
		{"C vs D", "C"},
	}

	records := Records(grid, 0)
	if len(records) != 2 {
		t.Fatalf("Records returned %d records, want 2", len(records))
	}

	if records[0]["Matchup"] != "A vs B" || records[0]["Line"] != "7.0" {
		t.Errorf("first record = %v", records[0])
	}

	// Short rows are padded with empty strings.
	if v, ok := records[1]["Line"]; !ok || v != "" {
		t.Errorf("short row: Line = %q (present=%v), want empty string", v, ok)
	}
}

func TestRecordsWithHeaderOffset(t *testing.T) {
	grid := [][]string{
		{"Cover Analysis"},
		{"Updated", "2026-01-10"},
		{},
		{"Season to date"},
		{"Matchup", "Result"},
		{"A vs B", "WIN"},
		{"C vs D", "LOSS"},
	}

	records := Records(grid, CoverAnalysisHeaderOffset)
	if len(records) != 2 {
		t.Fatalf("Records returned %d records, want 2", len(records))
	}
	if records[0]["Result"] != "WIN" || records[1]["Result"] != "LOSS" {
		t.Errorf("records = %v", records)
	}
}

func TestRecordsNoDataRows(t *testing.T) {
	tests := []struct {
		name   string
		grid   [][]string
		offset int
	}{
		{"empty grid", nil, 0},
		{"header only", [][]string{{"Matchup", "Line"}}, 0},
		{"preamble and header only", [][]string{{"p1"}, {"p2"}, {"p3"}, {"p4"}, {"Matchup", "Result"}}, CoverAnalysisHeaderOffset},
		{"offset beyond grid", [][]string{{"Matchup"}}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Records(tt.grid, tt.offset)
			if len(records) != 0 {
				t.Errorf("Records returned %d records, want 0", len(records))
			}
		})
	}
}

func TestRecordsSkipsBlankHeaderCells(t *testing.T) {
	grid := [][]string{
		{"Matchup", "", "Line"},
		{"A vs B", "junk", "7"},
	}

	records := Records(grid, 0)
	if len(records) != 1 {
		t.Fatalf("Records returned %d records, want 1", len(records))
	}
	if _, ok := records[0][""]; ok {
		t.Error("blank header column should not produce a key")
	}
	if records[0]["Line"] != "7" {
		t.Errorf("Line = %q, want 7", records[0]["Line"])
	}
}
