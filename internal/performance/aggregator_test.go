package performance

import (
	"testing"

	"github.com/fortuna/augur/internal/derive"
)

func TestAggregate(t *testing.T) {
	outcomes := []derive.RawRecord{
		{"Result": "WIN"},
		{"Result": "WIN"},
		{"result": "WIN"},
		{"Result": "LOSS"},
		{"result": "loss"},
		{"Result": "PUSH"},
	}

	s := Aggregate(outcomes, 7)

	if s.TotalBets != 5 {
		t.Errorf("TotalBets = %d, want 5", s.TotalBets)
	}
	if s.Wins != 3 {
		t.Errorf("Wins = %d, want 3", s.Wins)
	}
	if s.Losses != 2 {
		t.Errorf("Losses = %d, want 2", s.Losses)
	}
	if s.WinRate != 60.0 {
		t.Errorf("WinRate = %v, want 60.0", s.WinRate)
	}
	if s.CurrentWeekOpportunities != 7 {
		t.Errorf("CurrentWeekOpportunities = %d, want 7", s.CurrentWeekOpportunities)
	}
	if s.Wins+s.Losses != s.TotalBets {
		t.Errorf("Wins+Losses = %d, want TotalBets %d", s.Wins+s.Losses, s.TotalBets)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, 0)

	if s.TotalBets != 0 || s.Wins != 0 || s.Losses != 0 {
		t.Errorf("empty aggregate counted bets: %+v", s)
	}
	if s.WinRate != 0 {
		t.Errorf("WinRate = %v, want 0 for empty outcome set", s.WinRate)
	}
}

func TestAggregateIgnoresRecordsWithoutResult(t *testing.T) {
	outcomes := []derive.RawRecord{
		{"Matchup": "A vs B"},
		{"Result": ""},
		{"Result": "PENDING"},
	}

	s := Aggregate(outcomes, 1)
	if s.TotalBets != 0 {
		t.Errorf("TotalBets = %d, want 0", s.TotalBets)
	}
}
