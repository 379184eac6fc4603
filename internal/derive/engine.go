package derive

import (
	"fmt"
	"sort"
	"strconv"
)

// NoLineAvailable is emitted when neither source supplied a
// recommendation and there is no market line to synthesize one from.
const NoLineAvailable = "No line available"

// Engine derives canonical predictions from raw source records. It
// never returns an error: malformed or missing fields degrade to
// defaults, and only records without a matchup are dropped.
type Engine struct {
	bands []Band
}

// NewEngine creates a derivation engine. A nil bands slice selects
// DefaultBands.
func NewEngine(bands []Band) *Engine {
	if bands == nil {
		bands = DefaultBands
	}
	return &Engine{bands: bands}
}

// Derive converts raw records into canonical predictions, sorted by
// edge descending. The sort is stable, so records with equal edges
// keep their input order. Deterministic for a given input.
func (e *Engine) Derive(records []RawRecord) []Prediction {
	preds := make([]Prediction, 0, len(records))

	for _, rec := range records {
		matchup := resolve(rec, fieldMatchup)
		if matchup == "" {
			continue
		}

		p := Prediction{
			Matchup:   matchup,
			Favorite:  resolve(rec, fieldFavorite),
			Underdog:  resolve(rec, fieldUnderdog),
			Edge:      resolveFloat(rec, fieldEdge),
			OurLine:   resolveFloat(rec, fieldOurLine),
			VegasLine: resolveFloat(rec, fieldVegasLine),
		}

		p.BetRecommendation = e.recommendation(rec, p)

		band := Classify(e.bands, p.Edge)
		p.EdgeBand = resolveOr(rec, fieldEdgeBand, band.Label)
		p.Confidence = resolveOr(rec, fieldConfidence, band.ConfidenceLabel())

		preds = append(preds, p)
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Edge > preds[j].Edge
	})

	return preds
}

// recommendation prefers a source-supplied recommendation verbatim,
// then synthesizes one from the model and market lines.
func (e *Engine) recommendation(rec RawRecord, p Prediction) string {
	if v := resolve(rec, fieldBetRecommendation); v != "" {
		return v
	}

	if p.Edge > 0 && p.VegasLine > 0 {
		line := strconv.FormatFloat(p.VegasLine, 'f', -1, 64)
		if p.OurLine > p.VegasLine {
			return fmt.Sprintf("Take %s -%s", p.Favorite, line)
		}
		return fmt.Sprintf("Take %s +%s", p.Underdog, line)
	}

	return NoLineAvailable
}

func resolveOr(rec RawRecord, field, fallback string) string {
	if v := resolve(rec, field); v != "" {
		return v
	}
	return fallback
}
