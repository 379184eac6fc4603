package feed

// predictionsResponse mirrors GET /api/predictions/current.
type predictionsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Predictions []map[string]any `json:"predictions"`
		GeneratedAt string           `json:"generated_at"`
	} `json:"data"`
}

// resultsResponse mirrors GET /api/results/current. Cover analysis
// carries the settled-bet outcomes; the spread analysis table rides
// along but is not consumed here.
type resultsResponse struct {
	Data struct {
		CoverAnalysis       []map[string]any `json:"cover_analysis"`
		VegasSpreadAnalysis []map[string]any `json:"vegas_spread_analysis"`
	} `json:"data"`
}
