// Package performance reduces settled-bet outcome records into the
// win/loss summary the dashboard displays.
package performance

import (
	"strings"

	"github.com/fortuna/augur/internal/derive"
)

// Summary is the aggregate view of historical performance plus the
// current cycle's opportunity count. Recomputed wholesale every
// refresh, never updated incrementally.
type Summary struct {
	TotalBets                int     `json:"total_bets"`
	Wins                     int     `json:"wins"`
	Losses                   int     `json:"losses"`
	WinRate                  float64 `json:"win_rate"`
	CurrentWeekOpportunities int     `json:"current_week_opportunities"`
}

const (
	resultWin  = "WIN"
	resultLoss = "LOSS"
)

// Aggregate counts WIN and LOSS outcomes and computes the win rate as
// a percentage. Anything else in the result column (PUSH, pending,
// blank) is ignored. Pure function of its inputs.
func Aggregate(outcomes []derive.RawRecord, opportunities int) Summary {
	s := Summary{CurrentWeekOpportunities: opportunities}

	for _, rec := range outcomes {
		switch result(rec) {
		case resultWin:
			s.Wins++
		case resultLoss:
			s.Losses++
		}
	}

	s.TotalBets = s.Wins + s.Losses
	if s.TotalBets > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalBets) * 100
	}
	return s
}

// result reads the settled result, tolerating both sources' key
// casing and normalizing the value to upper case.
func result(rec derive.RawRecord) string {
	for _, key := range []string{"result", "Result"} {
		if v := strings.TrimSpace(rec[key]); v != "" {
			return strings.ToUpper(v)
		}
	}
	return ""
}
