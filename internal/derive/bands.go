package derive

import (
	"fmt"
	"math"
)

// Band is one bucket of edge magnitude together with the historical
// win rate observed for edges in that bucket.
type Band struct {
	Min     float64
	Label   string
	WinRate float64
}

// DefaultBands is the classification table, ordered by descending
// Min. Bands are half-open: an edge belongs to the first band whose
// Min it meets, so exactly one band matches any real edge. Labels and
// win rates are data supplied by the model owner and have changed
// between published versions; override them via NewEngine rather than
// editing here.
var DefaultBands = []Band{
	{Min: 12, Label: "12+", WinRate: 78},
	{Min: 9, Label: "9-12", WinRate: 72},
	{Min: 7, Label: "7-9", WinRate: 66},
	{Min: 5, Label: "5-7", WinRate: 61},
	{Min: 2, Label: "2-5", WinRate: 55},
	{Min: math.Inf(-1), Label: "0-2", WinRate: 52},
}

// Classify returns the band for an edge value.
func Classify(bands []Band, edge float64) Band {
	for _, b := range bands {
		if edge >= b.Min {
			return b
		}
	}
	// Unreachable as long as the last band's Min is -Inf.
	return bands[len(bands)-1]
}

// ConfidenceLabel renders the band as the human-readable confidence
// string shown next to a recommendation.
func (b Band) ConfidenceLabel() string {
	return fmt.Sprintf("%s edge: %.0f%% historical win rate", b.Label, b.WinRate)
}
