package madison

import (
	"fmt"
	"math"
	"sort"

	"github.com/helix-insights/madison/pkg/types/intel"
)

// Projection lengths, in characters.
const (
	summaryProductMaxLen = 100
	tableProductMaxLen   = 50
)

// topThreatsLimit caps the critical/high threat lists in the summary.
const topThreatsLimit = 5

// urgentActionFallback is used when a CRITICAL record somehow carries no
// action items.
const urgentActionFallback = "Review immediately"

// executiveSummaryTemplate renders the narrative sentence.  Its numbers are
// the same values exposed in the structured summary, never recomputed.
const executiveSummaryTemplate = "Helix Insights analyzed %d competitive records from FDA device " +
	"approvals and clinical trial databases. Analysis identified %d CRITICAL threats requiring " +
	"immediate executive action, %d HIGH priority items for strategic competitive review, " +
	"%d MEDIUM priority items for ongoing monitoring, and %d LOW priority items for quarterly " +
	"review. Average threat assessment confidence level: %d%%."

// truncate returns the first max characters of s.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// companyOrUnknown mirrors the record projection fallback.
func companyOrUnknown(rec intel.Record) string {
	if rec.Company == "" {
		return "Unknown"
	}
	return rec.Company
}

// Summarize derives the executive summary from a fully-scored batch.
//
// Per-level counts are zero-initialized so absent levels still show as 0, the
// average confidence is rounded (0 for an empty batch, never a division by
// zero), and the critical/high projections keep the top 5 by threat score,
// sorted descending with a stable sort so ties keep discovery order.
func Summarize(records []intel.ScoredRecord) intel.ExecutiveSummary {
	overview := intel.ThreatOverview{}
	for _, level := range intel.Levels() {
		overview[level] = 0
	}

	criticals := make([]intel.CriticalThreat, 0)
	highs := make([]intel.HighThreat, 0)
	totalConfidence := 0

	for _, rec := range records {
		assessment := rec.MadisonIntelligence
		overview[assessment.ThreatLevel]++
		totalConfidence += assessment.Confidence

		switch assessment.ThreatLevel {
		case intel.ThreatCritical:
			urgent := urgentActionFallback
			if len(assessment.ActionItems) > 0 {
				urgent = assessment.ActionItems[0].Action
			}
			criticals = append(criticals, intel.CriticalThreat{
				Company:      companyOrUnknown(rec.Record),
				Product:      truncate(rec.ProductOrTrial(), summaryProductMaxLen),
				ThreatScore:  assessment.ThreatScore,
				Confidence:   assessment.Confidence,
				UrgentAction: urgent,
			})
		case intel.ThreatHigh:
			highs = append(highs, intel.HighThreat{
				Company:     companyOrUnknown(rec.Record),
				Product:     truncate(rec.ProductOrTrial(), summaryProductMaxLen),
				ThreatScore: assessment.ThreatScore,
				Confidence:  assessment.Confidence,
			})
		}
	}

	sort.SliceStable(criticals, func(i, j int) bool {
		return criticals[i].ThreatScore > criticals[j].ThreatScore
	})
	sort.SliceStable(highs, func(i, j int) bool {
		return highs[i].ThreatScore > highs[j].ThreatScore
	})

	if len(criticals) > topThreatsLimit {
		criticals = criticals[:topThreatsLimit]
	}
	if len(highs) > topThreatsLimit {
		highs = highs[:topThreatsLimit]
	}

	// Half-to-even rounding, so a .5 average does not drift upward.
	avgConfidence := 0
	if len(records) > 0 {
		avgConfidence = int(math.RoundToEven(float64(totalConfidence) / float64(len(records))))
	}

	return intel.ExecutiveSummary{
		ThreatOverview:    overview,
		AverageConfidence: avgConfidence,
		TotalRecords:      len(records),
		CriticalThreats:   criticals,
		HighThreats:       highs,
		ExecutiveSummary: fmt.Sprintf(executiveSummaryTemplate,
			len(records),
			overview[intel.ThreatCritical],
			overview[intel.ThreatHigh],
			overview[intel.ThreatMedium],
			overview[intel.ThreatLow],
			avgConfidence,
		),
	}
}

// TableRows projects a scored batch into dashboard table rows, in batch order.
func TableRows(records []intel.ScoredRecord) []intel.TableRow {
	rows := make([]intel.TableRow, 0, len(records))
	for _, rec := range records {
		date := rec.EffectiveDate()
		if date == "" {
			date = intel.NotAvailable
		}
		rows = append(rows, intel.TableRow{
			Company:      companyOrUnknown(rec.Record),
			ProductTrial: truncate(rec.ProductOrTrial(), tableProductMaxLen),
			Source:       rec.Source,
			ThreatLevel:  rec.MadisonIntelligence.ThreatLevel,
			ThreatScore:  rec.MadisonIntelligence.ThreatScore,
			Confidence:   fmt.Sprintf("%d%%", rec.MadisonIntelligence.Confidence),
			Date:         date,
		})
	}
	return rows
}
