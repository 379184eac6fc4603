package derive

import (
	"math"
	"testing"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		edge float64
		want string
	}{
		{15, "12+"},
		{12, "12+"},
		{11.99, "9-12"},
		{9, "9-12"},
		{8.99, "7-9"},
		{7, "7-9"},
		{6.99, "5-7"},
		{5, "5-7"},
		{4.99, "2-5"},
		{2, "2-5"},
		{1.99, "0-2"},
		{0, "0-2"},
		{-3.5, "0-2"},
	}

	for _, tt := range tests {
		got := Classify(DefaultBands, tt.edge)
		if got.Label != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.edge, got.Label, tt.want)
		}
	}
}

// Every real edge must land in exactly one band.
func TestClassifyIsTotalAndExclusive(t *testing.T) {
	for edge := -20.0; edge <= 20.0; edge += 0.25 {
		matches := 0
		for i, b := range DefaultBands {
			upper := math.Inf(1)
			if i > 0 {
				upper = DefaultBands[i-1].Min
			}
			if edge >= b.Min && edge < upper {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("edge %v matched %d bands, want exactly 1", edge, matches)
		}
	}
}

func TestConfidenceLabelEmbedsWinRate(t *testing.T) {
	b := Band{Min: 9, Label: "9-12", WinRate: 72}
	want := "9-12 edge: 72% historical win rate"
	if got := b.ConfidenceLabel(); got != want {
		t.Errorf("ConfidenceLabel() = %q, want %q", got, want)
	}
}
