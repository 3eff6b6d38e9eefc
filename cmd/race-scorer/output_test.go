package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/models"
	"github.com/yourusername/race-scorer/internal/scoring"
	"github.com/yourusername/race-scorer/internal/service"
)

func sampleRaceScore() *scoring.RaceScore {
	race := &models.Race{
		ID:         uuid.New(),
		Venue:      "05",
		RaceDate:   time.Date(2024, 5, 26, 0, 0, 0, 0, time.UTC),
		RaceNumber: 11,
		Distance:   2400,
		Surface:    "turf",
	}
	return &scoring.RaceScore{
		Race: race,
		Runners: []scoring.RunnerScore{
			{Runner: &models.Runner{PostPosition: 3, HorseName: "Northern Lark"}, Rank: 1, TotalScore: 14.237},
			{Runner: &models.Runner{PostPosition: 7, HorseName: "Quiet Harbour"}, Rank: 2, TotalScore: -2.5},
		},
		ExcludedFactors: []string{"prev_corner"},
	}
}

func TestPrintRaceScore(t *testing.T) {
	var buf bytes.Buffer
	printRaceScore(&buf, sampleRaceScore(), factor.TotalCount)

	out := buf.String()
	assert.Contains(t, out, "05-20240526-R11")
	assert.Contains(t, out, "factors 30/31")
	assert.Contains(t, out, "Northern Lark")
	assert.Contains(t, out, "14.24")
	assert.Contains(t, out, "excluded: [prev_corner]")
}

func TestPrintBatchReportLimitsTopPicks(t *testing.T) {
	result := sampleRaceScore()
	for i := 0; i < 3; i++ {
		result.Runners = append(result.Runners, scoring.RunnerScore{
			Runner: &models.Runner{PostPosition: 10 + i}, Rank: 3 + i,
		})
	}
	report := &service.BatchReport{
		RunID:   uuid.New(),
		Results: []*scoring.RaceScore{result},
		Skipped: []service.SkippedRace{{RaceKey: "05-20240526-R12", Reason: "no runners"}},
	}

	var buf bytes.Buffer
	printBatchReport(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "1 scored, 1 skipped")
	assert.Contains(t, out, "3(14.2) 7(-2.5) 10(0.0)")
	assert.NotContains(t, out, "11(0.0)")
	assert.Contains(t, out, "skipped 05-20240526-R12: no runners")
}

func TestPrintAbsoluteScore(t *testing.T) {
	var buf bytes.Buffer
	printAbsoluteScore(&buf, scoring.AbsoluteScore{
		Venue:      "05",
		FactorID:   "jockey",
		ValueKey:   "J001",
		HasHistory: true,
		Statistic:  models.FactorStatistic{WinCount: 300, PlaceCount: 500, CorrectedWinReturn: 110, CorrectedPlaceReturn: 105},
		RGS:        7.61,
		Band:       scoring.BandStronglyFavorable,
	})

	out := buf.String()
	assert.Contains(t, out, "J001")
	assert.Contains(t, out, "7.61 (strongly_favorable)")
}

func TestPrintCatalogListsEveryFactor(t *testing.T) {
	var buf bytes.Buffer
	catalog := factor.Default()
	printCatalog(&buf, catalog)

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, catalog.Len()+1, lines)
}
