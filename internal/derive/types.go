// Package derive turns raw source records into canonical, display-ready
// bet predictions. The two sources evolved their field names
// independently (the live feed uses snake_case keys, the spreadsheet
// uses header labels), so every canonical field resolves through a
// priority-ordered key table instead of ad hoc lookups.
package derive

// RawRecord is one row of source data keyed by the source's own field
// names. No key set is guaranteed; absent fields are tolerated
// everywhere.
type RawRecord map[string]string

// Prediction is the canonical, source-agnostic view of one game.
// Built fresh every refresh cycle and never mutated in place.
type Prediction struct {
	Matchup           string  `json:"matchup"`
	Favorite          string  `json:"favorite"`
	Underdog          string  `json:"underdog"`
	OurLine           float64 `json:"our_line"`
	VegasLine         float64 `json:"vegas_line"`
	Edge              float64 `json:"edge"`
	BetRecommendation string  `json:"bet_recommendation"`
	Confidence        string  `json:"confidence"`
	EdgeBand          string  `json:"edge_band"`
}
