package derive

import (
	"reflect"
	"testing"
)

func TestDeriveDropsRecordsWithoutMatchup(t *testing.T) {
	engine := NewEngine(nil)

	records := []RawRecord{
		{"Matchup": "A vs B", "Edge": "3"},
		{"Edge": "10"},
		{"Matchup": "", "Edge": "10"},
		{"Matchup": "N/A", "Edge": "10"},
		{"matchup": "C vs D", "edge": "1"},
	}

	preds := engine.Derive(records)
	if len(preds) != 2 {
		t.Fatalf("Derive returned %d predictions, want 2", len(preds))
	}
	for _, p := range preds {
		if p.Matchup != "A vs B" && p.Matchup != "C vs D" {
			t.Errorf("unexpected matchup %q in output", p.Matchup)
		}
	}
}

func TestDeriveFullRecord(t *testing.T) {
	engine := NewEngine(nil)

	records := []RawRecord{{
		"Matchup":              "A vs B",
		"Favorite":             "A",
		"Underdog":             "B",
		"Edge":                 "9.5",
		"Predicted Difference": "10.0",
		"Line":                 "7.0",
	}}

	preds := engine.Derive(records)
	if len(preds) != 1 {
		t.Fatalf("Derive returned %d predictions, want 1", len(preds))
	}

	p := preds[0]
	if p.Edge != 9.5 {
		t.Errorf("Edge = %v, want 9.5", p.Edge)
	}
	if p.EdgeBand != "9-12" {
		t.Errorf("EdgeBand = %q, want %q", p.EdgeBand, "9-12")
	}
	if p.BetRecommendation != "Take A -7" {
		t.Errorf("BetRecommendation = %q, want %q", p.BetRecommendation, "Take A -7")
	}
}

func TestDeriveRecommendation(t *testing.T) {
	engine := NewEngine(nil)

	tests := []struct {
		name string
		rec  RawRecord
		want string
	}{
		{
			name: "source-supplied recommendation wins verbatim",
			rec: RawRecord{
				"matchup":                "A vs B",
				"betting_recommendation": "Fade the public",
				"edge":                   "9.5",
				"vegas_line":             "7",
			},
			want: "Fade the public",
		},
		{
			name: "model line over market takes favorite",
			rec: RawRecord{
				"matchup":              "A vs B",
				"favorite":             "A",
				"underdog":             "B",
				"edge":                 "3",
				"predicted_difference": "9.5",
				"vegas_line":           "6.5",
			},
			want: "Take A -6.5",
		},
		{
			name: "model line under market takes underdog",
			rec: RawRecord{
				"matchup":              "A vs B",
				"favorite":             "A",
				"underdog":             "B",
				"edge":                 "3",
				"predicted_difference": "4",
				"vegas_line":           "6.5",
			},
			want: "Take B +6.5",
		},
		{
			name: "no market line",
			rec: RawRecord{
				"matchup": "A vs B",
				"edge":    "3",
			},
			want: NoLineAvailable,
		},
		{
			name: "zero edge",
			rec: RawRecord{
				"matchup":    "A vs B",
				"edge":       "0",
				"vegas_line": "6.5",
			},
			want: NoLineAvailable,
		},
		{
			name: "N/A line treated as absent",
			rec: RawRecord{
				"matchup":    "A vs B",
				"edge":       "3",
				"vegas_line": "N/A",
				"Line":       "N/A",
			},
			want: NoLineAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds := engine.Derive([]RawRecord{tt.rec})
			if len(preds) != 1 {
				t.Fatalf("Derive returned %d predictions, want 1", len(preds))
			}
			if got := preds[0].BetRecommendation; got != tt.want {
				t.Errorf("BetRecommendation = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveSortsByEdgeDescendingStable(t *testing.T) {
	engine := NewEngine(nil)

	records := []RawRecord{
		{"matchup": "low", "edge": "1"},
		{"matchup": "tie-first", "edge": "5"},
		{"matchup": "high", "edge": "11"},
		{"matchup": "tie-second", "edge": "5"},
	}

	preds := engine.Derive(records)

	got := make([]string, len(preds))
	for i, p := range preds {
		got[i] = p.Matchup
	}
	want := []string{"high", "tie-first", "tie-second", "low"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted order = %v, want %v", got, want)
	}

	for i := 1; i < len(preds); i++ {
		if preds[i].Edge > preds[i-1].Edge {
			t.Errorf("output not non-increasing at index %d: %v > %v", i, preds[i].Edge, preds[i-1].Edge)
		}
	}
}

func TestDeriveIdempotent(t *testing.T) {
	engine := NewEngine(nil)

	records := []RawRecord{
		{"matchup": "A vs B", "edge": "7.2", "favorite": "A", "underdog": "B", "vegas_line": "3"},
		{"Matchup": "C vs D", "Edge": "2.1", "Line": "1.5", "Favorite": "C", "Underdog": "D"},
		{"matchup": "E vs F"},
	}

	first := engine.Derive(records)
	second := engine.Derive(records)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Derive is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDeriveMalformedFieldsDefaultToZero(t *testing.T) {
	engine := NewEngine(nil)

	preds := engine.Derive([]RawRecord{{
		"matchup":              "A vs B",
		"edge":                 "not-a-number",
		"predicted_difference": "",
		"vegas_line":           "N/A",
	}})

	if len(preds) != 1 {
		t.Fatalf("Derive returned %d predictions, want 1", len(preds))
	}
	p := preds[0]
	if p.Edge != 0 || p.OurLine != 0 || p.VegasLine != 0 {
		t.Errorf("malformed fields should default to 0, got edge=%v ourLine=%v vegasLine=%v",
			p.Edge, p.OurLine, p.VegasLine)
	}
	if p.EdgeBand != "0-2" {
		t.Errorf("EdgeBand = %q, want %q", p.EdgeBand, "0-2")
	}
}

func TestDeriveLiveKeyTakesPriorityOverSheetKey(t *testing.T) {
	engine := NewEngine(nil)

	preds := engine.Derive([]RawRecord{{
		"matchup": "live name",
		"Matchup": "sheet name",
		"edge":    "4",
		"Edge":    "9",
	}})

	if len(preds) != 1 {
		t.Fatalf("Derive returned %d predictions, want 1", len(preds))
	}
	if preds[0].Matchup != "live name" {
		t.Errorf("Matchup = %q, want live key to win", preds[0].Matchup)
	}
	if preds[0].Edge != 4 {
		t.Errorf("Edge = %v, want live key value 4", preds[0].Edge)
	}
}

func TestDeriveSourceSuppliedBandAndConfidence(t *testing.T) {
	engine := NewEngine(nil)

	preds := engine.Derive([]RawRecord{{
		"matchup":    "A vs B",
		"edge":       "9.5",
		"edge_band":  "custom band",
		"confidence": "custom confidence",
	}})

	if preds[0].EdgeBand != "custom band" {
		t.Errorf("EdgeBand = %q, want source-supplied value", preds[0].EdgeBand)
	}
	if preds[0].Confidence != "custom confidence" {
		t.Errorf("Confidence = %q, want source-supplied value", preds[0].Confidence)
	}
}
