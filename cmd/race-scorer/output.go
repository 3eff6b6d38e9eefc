package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yourusername/race-scorer/internal/factor"
	"github.com/yourusername/race-scorer/internal/scoring"
	"github.com/yourusername/race-scorer/internal/service"
)

const topPicks = 3

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printRaceScore(w io.Writer, result *scoring.RaceScore, catalogSize int) {
	race := result.Race
	fmt.Fprintf(w, "%s  %dm %s %s  factors %d/%d  (%s)\n",
		race.Key(), race.Distance, race.Surface, race.TrackCondition,
		result.FactorsUsed(catalogSize), catalogSize, result.Duration.Round(time.Millisecond))

	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tPOST\tHORSE\tSCORE\t")
	for _, rs := range result.Runners {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.2f\t\n", rs.Rank, rs.Runner.PostPosition, rs.Runner.HorseName, scoring.Round(rs.TotalScore, 2))
	}
	tw.Flush()

	if len(result.ExcludedFactors) > 0 {
		fmt.Fprintf(w, "excluded: %v\n", result.ExcludedFactors)
	}
	if len(result.FailedFactors) > 0 {
		fmt.Fprintf(w, "lookup failed: %v\n", result.FailedFactors)
	}
}

func printBreakdown(w io.Writer, result *scoring.RaceScore) {
	for _, rs := range result.Runners {
		fmt.Fprintf(w, "\n#%d %s\n", rs.Runner.PostPosition, rs.Runner.HorseName)
		tw := newTable(w)
		fmt.Fprintln(tw, "FACTOR\tVALUE\tHIT\tRET\tN\tZH\tZR\tSHR\tSCORE\tWEIGHT\tTOTAL\t")
		for _, fb := range rs.Factors {
			fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%d\t%.2f\t%.2f\t%.3f\t%.2f\t%.2f\t%.2f\t\n",
				fb.FactorID, fb.ValueKey, fb.HitRaw, fb.RetRaw, fb.NMin,
				fb.ZHit, fb.ZRet, fb.Shrinkage, scoring.Round(fb.Score, 2), fb.Weight, scoring.Round(fb.Weighted, 2))
		}
		tw.Flush()
	}
}

func printBatchReport(w io.Writer, report *service.BatchReport) {
	fmt.Fprintf(w, "run %s: %d scored, %d skipped in %s\n",
		report.RunID, len(report.Results), len(report.Skipped), report.Duration.Round(time.Millisecond))

	tw := newTable(w)
	fmt.Fprintln(tw, "RACE\tRUNNERS\tTOP PICKS\t")
	for _, result := range report.Results {
		picks := make([]string, 0, topPicks)
		for _, rs := range result.Runners {
			if len(picks) == topPicks {
				break
			}
			picks = append(picks, fmt.Sprintf("%d(%.1f)", rs.Runner.PostPosition, scoring.Round(rs.TotalScore, 1)))
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", result.Race.Key(), len(result.Runners), strings.Join(picks, " "))
	}
	tw.Flush()

	for _, skipped := range report.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", skipped.RaceKey, skipped.Reason)
	}
}

func printAbsoluteScore(w io.Writer, score scoring.AbsoluteScore) {
	stat := score.Statistic
	tw := newTable(w)
	fmt.Fprintf(tw, "venue\t%s\t\n", score.Venue)
	fmt.Fprintf(tw, "factor\t%s\t\n", score.FactorID)
	fmt.Fprintf(tw, "value\t%s\t\n", score.ValueKey)
	fmt.Fprintf(tw, "history\t%t\t\n", score.HasHistory)
	fmt.Fprintf(tw, "win\t%d/%d (%.1f%%)\t\n", stat.WinHits, stat.WinCount, stat.WinHitRate)
	fmt.Fprintf(tw, "place\t%d/%d (%.1f%%)\t\n", stat.PlaceHits, stat.PlaceCount, stat.PlaceHitRate)
	fmt.Fprintf(tw, "win return\t%.1f%%\t\n", stat.CorrectedWinReturn)
	fmt.Fprintf(tw, "place return\t%.1f%%\t\n", stat.CorrectedPlaceReturn)
	fmt.Fprintf(tw, "rgs\t%.2f (%s)\t\n", scoring.Round(score.RGS, 2), score.Band)
	tw.Flush()
}

func printCurationReport(w io.Writer, report *service.CurationReport) {
	fmt.Fprintf(w, "%s at %s: %d values, %d favorable, %d below sample floor\n",
		report.FactorID, report.Venue, len(report.Scores), report.Favorable, report.Dropped)

	tw := newTable(w)
	fmt.Fprintln(tw, "VALUE\tW\tWIN RET\tPLACE RET\tRGS\tBAND\t")
	for _, s := range report.Scores {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.2f\t%s\t\n",
			s.ValueKey, s.Statistic.WinCount+s.Statistic.PlaceCount,
			s.Statistic.CorrectedWinReturn, s.Statistic.CorrectedPlaceReturn,
			scoring.Round(s.RGS, 2), s.Band)
	}
	tw.Flush()
}

func printCatalog(w io.Writer, catalog *factor.Catalog) {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tKIND\tLABEL\t")
	for _, f := range catalog.Factors() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", f.Ordinal, f.ID, f.Kind, f.Label)
	}
	tw.Flush()
}
