package marketdata

import (
	"testing"
	"time"

	"cratepricer/internal/model"
)

func TestHeuristicEstimateTable(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		genre  string
		year   int
		format string
		low    float64
		mid    float64
		high   float64
	}{
		{"unknown genre LP", "Polka", 0, "LP", 8, 15, 30},
		{"rock modern LP", "Rock", 1995, "LP", 10, 20, 40},
		{"jazz pre-1980", "Jazz", 1959, "LP", 23, 45, 90},
		{"electronic eighties", "Electronic", 1985, "LP", 14, 30, 60},
		{"hip hop hyphenated", "Hip-Hop", 2001, "LP", 15, 30, 55},
		{"classical", "Classical", 2010, "LP", 5, 10, 20},
		{"seven inch discount", "Rock", 1995, `7"`, 6, 12, 24},
		{"twelve inch single", "Rock", 1995, `12" Single`, 8, 16, 32},
		{"old seven inch stacks", "Jazz", 1975, `7"`, 14, 27, 54},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			md := HeuristicEstimate(c.genre, c.year, c.format, now)
			if md.Source != model.SourceEstimated {
				t.Errorf("source = %q", md.Source)
			}
			if *md.LowPrice != c.low || *md.MedianPrice != c.mid || *md.HighPrice != c.high {
				t.Errorf("got %v/%v/%v, want %v/%v/%v",
					*md.LowPrice, *md.MedianPrice, *md.HighPrice, c.low, c.mid, c.high)
			}
		})
	}
}

func TestHeuristicRoundsToWholeUnits(t *testing.T) {
	md := HeuristicEstimate("Jazz", 1959, "LP", time.Now())
	for _, v := range []float64{*md.LowPrice, *md.MedianPrice, *md.HighPrice} {
		if v != float64(int(v)) {
			t.Errorf("value %v not rounded to whole units", v)
		}
	}
}
