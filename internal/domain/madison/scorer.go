// Package madison implements the Madison threat-analysis core: a fixed-weight
// additive rule set that scores normalized competitive-intelligence records,
// recommends follow-up actions, and aggregates scored batches into an
// executive summary.
//
// The rule weights, vocabularies, and level thresholds are hand-tuned
// constants, not a learned model; scoring the same record at the same instant
// always produces the same result.
package madison

import (
	"strings"
	"time"

	"github.com/helix-insights/madison/pkg/types/intel"
)

// AgentVersion tags every assessment with the rule-set revision that
// produced it.
const AgentVersion = "Madison_Intelligence_v1.3"

// Recency windows, in days.
const (
	recentWindowDays = 730  // two years
	activeWindowDays = 1825 // five years
)

// Scoring vocabularies.  Matching is substring-anywhere and case-insensitive;
// overlapping terms ("vision", "surgical", "aspirator") may fire more than
// one factor on the same record, and that double-counting is intended.
var (
	ophthalmicTerms = []string{
		"contact lens", "intraocular", "iol", "lens",
		"ophthalmic", "vision", "eye", "retina", "cornea",
		"cataract", "glaucoma", "myopia", "surgical",
		"vitreous", "retinal", "ocular", "subretinal", "aspirator",
	}

	advancedTerms = []string{
		"surgical", "implant", "laser", "aspirator", "injector", "advanced",
	}

	majorCompetitors = []string{
		"alcon", "bausch", "coopervision", "zeiss", "johnson",
		"novartis", "essilor", "hoya", "menicon", "paragon",
		"optical", "vision", "staar", "amo",
	}

	advancedPhases = []string{"phase 3", "phase iii", "phase 2", "phase ii"}
)

// Scorer evaluates one normalized record into an Assessment.  Implementations
// must be pure functions of the record and the supplied instant, safe to call
// concurrently on independent records.
type Scorer interface {
	Score(now time.Time, rec intel.Record) intel.Assessment
}

// RuleScorer is the production Scorer: six ordered, independent factors
// accumulate a threat score and a confidence score, the threat level is
// derived from the score, and each triggered factor appends one strategic
// implication in evaluation order.
type RuleScorer struct{}

// NewScorer returns the fixed-weight rule scorer.
func NewScorer() *RuleScorer {
	return &RuleScorer{}
}

// containsAny reports whether text contains any of the terms as a substring.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Score implements the Scorer interface.
func (s *RuleScorer) Score(now time.Time, rec intel.Record) intel.Assessment {
	score := 0
	confidence := 0
	implications := make([]string, 0, 7)

	company := strings.ToLower(rec.Company)
	device := strings.ToLower(rec.DeviceName)
	trial := strings.ToLower(rec.TrialTitle)
	product := strings.ToLower(rec.ProductCode)

	// Factor 1: recent activity.  Two mutually exclusive tiers, first match
	// wins; anything older than five years contributes nothing.
	switch {
	case IsDateRecent(now, rec.EffectiveDate(), recentWindowDays):
		score += 35
		confidence += 25
		implications = append(implications, "Recent approval/trial within last 2 years")
	case IsDateRecent(now, rec.EffectiveDate(), activeWindowDays):
		score += 20
		confidence += 15
		implications = append(implications, "Activity within last 5 years")
	}

	searchText := device + " " + trial + " " + product

	// Factor 2: ophthalmology product category.
	if containsAny(searchText, ophthalmicTerms) {
		score += 30
		confidence += 20
		implications = append(implications, "High-value ophthalmology product category")
	}

	// Factor 3: advanced/surgical device.  Independent of factor 2; a term
	// like "surgical" triggers both.
	if containsAny(searchText, advancedTerms) {
		score += 25
		confidence += 15
		implications = append(implications, "Advanced surgical or premium device")
	}

	// Factor 4: regulatory provenance.
	if strings.Contains(rec.Source, "FDA") {
		score += 20
		confidence += 15
		implications = append(implications, "FDA 510(k) clearance provides market access")
	}

	// Factor 5: clinical provenance, with a phase sub-bonus that only applies
	// under the parent condition.
	if strings.Contains(rec.Source, "Clinical") {
		score += 15
		confidence += 10
		implications = append(implications, "Active clinical development")

		if containsAny(trial, advancedPhases) {
			score += 30
			confidence += 20
			implications = append(implications, "Advanced clinical phase")
		}
	}

	// Factor 6: major competitor.
	if containsAny(company, majorCompetitors) {
		score += 25
		confidence += 20
		implications = append(implications, "Established ophthalmology competitor")
	}

	level, confidence := deriveLevel(score, confidence)

	productOrTrial := device
	if productOrTrial == "" {
		productOrTrial = trial
	}

	return intel.Assessment{
		ThreatScore:           score,
		ThreatLevel:           level,
		Confidence:            confidence,
		StrategicImplications: implications,
		ActionItems:           RecommendActions(level, company, productOrTrial),
		AnalysisTimestamp:     now.UTC().Format(time.RFC3339),
		AgentVersion:          AgentVersion,
	}
}

// deriveLevel maps the accumulated threat score to a level and applies the
// level's confidence adjustment.  The order of the branches matters: the
// adjustments read the confidence accumulated by the factors, and scores in
// [10,30) and below 10 both land on LOW through different confidence paths
// (a floor of 70 versus a fixed 60).
func deriveLevel(score, confidence int) (intel.ThreatLevel, int) {
	switch {
	case score >= 70:
		return intel.ThreatCritical, min(confidence+25, 95)
	case score >= 50:
		return intel.ThreatHigh, min(confidence+15, 90)
	case score >= 30:
		return intel.ThreatMedium, min(confidence+10, 85)
	case score >= 10:
		return intel.ThreatLow, max(confidence, 70)
	default:
		return intel.ThreatLow, 60
	}
}
