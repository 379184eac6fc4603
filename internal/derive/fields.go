package derive

import (
	"strconv"
	"strings"
)

// Canonical field identifiers used by the resolution table.
const (
	fieldMatchup           = "matchup"
	fieldFavorite          = "favorite"
	fieldUnderdog          = "underdog"
	fieldEdge              = "edge"
	fieldOurLine           = "our_line"
	fieldVegasLine         = "vegas_line"
	fieldBetRecommendation = "bet_recommendation"
	fieldEdgeBand          = "edge_band"
	fieldConfidence        = "confidence"
)

// fieldKeys maps each canonical field to its source keys in priority
// order: live feed key first, spreadsheet header second.
var fieldKeys = map[string][]string{
	fieldMatchup:           {"matchup", "Matchup"},
	fieldFavorite:          {"favorite", "Favorite"},
	fieldUnderdog:          {"underdog", "Underdog"},
	fieldEdge:              {"edge", "Edge"},
	fieldOurLine:           {"predicted_difference", "Predicted Difference"},
	fieldVegasLine:         {"vegas_line", "Line"},
	fieldBetRecommendation: {"betting_recommendation", "Bet Recommendation"},
	fieldEdgeBand:          {"edge_band", "Edge Band"},
	fieldConfidence:        {"confidence", "Confidence"},
}

// notAvailable is the sentinel both sources use for missing values.
const notAvailable = "N/A"

// resolve returns the first usable value for a canonical field. The
// empty string and the "N/A" sentinel both count as absent.
func resolve(rec RawRecord, field string) string {
	for _, key := range fieldKeys[field] {
		v := strings.TrimSpace(rec[key])
		if v != "" && v != notAvailable {
			return v
		}
	}
	return ""
}

// resolveFloat parses the resolved value as a float64, defaulting to
// 0 on absence or parse failure.
func resolveFloat(rec RawRecord, field string) float64 {
	v := resolve(rec, field)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
