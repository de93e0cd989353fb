package madison

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helix-insights/madison/pkg/types/intel"
)

var scoringNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// daysAgo formats a date n days before scoringNow.
func daysAgo(n int) string {
	return scoringNow.AddDate(0, 0, -n).Format(dateLayout)
}

func TestScoreNoEvidence(t *testing.T) {
	rec := intel.Record{
		Source:       "EUDAMED Registry",
		Company:      "Acme Medical",
		DeviceName:   "cardiac stent",
		DecisionDate: "1990-01-01",
	}

	got := NewScorer().Score(scoringNow, rec)

	assert.Equal(t, 0, got.ThreatScore)
	assert.Equal(t, intel.ThreatLow, got.ThreatLevel)
	assert.Equal(t, 60, got.Confidence)
	assert.Empty(t, got.StrategicImplications)
	// Even a zero-score record gets the quarterly review item.
	require.Len(t, got.ActionItems, 1)
	assert.Equal(t, PriorityLow, got.ActionItems[0].Priority)
	assert.Equal(t, AgentVersion, got.AgentVersion)
}

// The concrete CRITICAL scenario: recency (+35/+25), ophthalmic match on
// "lens"/"vision"/"intraocular" (+30/+20), FDA provenance (+20/+15), and the
// "alcon" competitor match (+25/+20) stack to a raw score of 110 and a raw
// confidence of 80, clamped to min(80+25, 95) = 95.
func TestScoreCriticalScenario(t *testing.T) {
	rec := intel.Record{
		Source:       "FDA 510(k)",
		Company:      "Alcon Laboratories",
		DeviceName:   "AcrySof IQ Vivity Extended Vision Intraocular Lens",
		DecisionDate: daysAgo(45),
	}

	got := NewScorer().Score(scoringNow, rec)

	assert.Equal(t, 110, got.ThreatScore)
	assert.Equal(t, intel.ThreatCritical, got.ThreatLevel)
	assert.Equal(t, 95, got.Confidence)
	assert.Equal(t, []string{
		"Recent approval/trial within last 2 years",
		"High-value ophthalmology product category",
		"FDA 510(k) clearance provides market access",
		"Established ophthalmology competitor",
	}, got.StrategicImplications)

	require.Len(t, got.ActionItems, 4)
	assert.Equal(t, "IMMEDIATE: Executive briefing on alcon laboratories's acrysof iq vivity extended vision intraocular lens", got.ActionItems[0].Action)
}

// The concrete MEDIUM scenario: clinical provenance (+15/+10) plus the phase
// sub-bonus (+30/+20) with no date and no other match lands at 45/30 →
// MEDIUM with confidence min(30+10, 85) = 40.
func TestScoreClinicalPhaseScenario(t *testing.T) {
	rec := intel.Record{
		Source:     "ClinicalTrials.gov",
		Company:    "Neurocrine Biosciences",
		TrialTitle: "Phase III Study of X",
	}

	got := NewScorer().Score(scoringNow, rec)

	assert.Equal(t, 45, got.ThreatScore)
	assert.Equal(t, intel.ThreatMedium, got.ThreatLevel)
	assert.Equal(t, 40, got.Confidence)
	assert.Equal(t, []string{
		"Active clinical development",
		"Advanced clinical phase",
	}, got.StrategicImplications)
}

func TestPhaseBonusRequiresClinicalProvenance(t *testing.T) {
	// The phase vocabulary may appear in a device name, but without the
	// "Clinical" source substring the sub-rule never fires.
	rec := intel.Record{
		Source:     "FDA 510(k)",
		DeviceName: "phase 2 dialysis controller",
	}

	got := NewScorer().Score(scoringNow, rec)

	assert.Equal(t, 20, got.ThreatScore) // FDA factor only
	assert.NotContains(t, got.StrategicImplications, "Advanced clinical phase")
}

func TestRecencyTiersAreExclusive(t *testing.T) {
	base := intel.Record{Source: "EUDAMED Registry", DeviceName: "cardiac stent"}

	recent := base
	recent.DecisionDate = daysAgo(100)
	got := NewScorer().Score(scoringNow, recent)
	assert.Equal(t, 35, got.ThreatScore)
	assert.Equal(t, []string{"Recent approval/trial within last 2 years"}, got.StrategicImplications)

	older := base
	older.DecisionDate = daysAgo(1000)
	got = NewScorer().Score(scoringNow, older)
	assert.Equal(t, 20, got.ThreatScore)
	assert.Equal(t, []string{"Activity within last 5 years"}, got.StrategicImplications)
}

func TestStartDateFallback(t *testing.T) {
	rec := intel.Record{
		Source:    "EUDAMED Registry",
		StartDate: daysAgo(10),
	}
	got := NewScorer().Score(scoringNow, rec)
	assert.Equal(t, 35, got.ThreatScore)
}

func TestOverlappingTermsDoubleCount(t *testing.T) {
	// "surgical" is in both the ophthalmic and advanced vocabularies; both
	// factors fire on the same text by design.
	rec := intel.Record{
		Source:     "EUDAMED Registry",
		DeviceName: "surgical forceps",
	}
	got := NewScorer().Score(scoringNow, rec)

	assert.Equal(t, 55, got.ThreatScore) // 30 + 25
	assert.Equal(t, []string{
		"High-value ophthalmology product category",
		"Advanced surgical or premium device",
	}, got.StrategicImplications)
}

func TestSubstringMatchIsIntentional(t *testing.T) {
	// "vision" matches inside "Johnson & Johnson Vision Care" for the
	// competitor factor; substring semantics must not be upgraded to
	// word-boundary matching.
	rec := intel.Record{
		Source:  "EUDAMED Registry",
		Company: "Johnson & Johnson Vision Care",
	}
	got := NewScorer().Score(scoringNow, rec)
	assert.Contains(t, got.StrategicImplications, "Established ophthalmology competitor")
}

func TestScoreIdempotent(t *testing.T) {
	rec := intel.Record{
		Source:       "FDA 510(k)",
		Company:      "STAAR Surgical",
		DeviceName:   "EVO ICL intraocular lens",
		DecisionDate: daysAgo(200),
	}
	s := NewScorer()
	first := s.Score(scoringNow, rec)
	second := s.Score(scoringNow, rec)
	assert.Equal(t, first, second)
}

func TestDeriveLevelBoundaries(t *testing.T) {
	tests := []struct {
		score          int
		wantLevel      intel.ThreatLevel
		inConfidence   int
		wantConfidence int
	}{
		{9, intel.ThreatLow, 50, 60},
		{10, intel.ThreatLow, 50, 70},
		{10, intel.ThreatLow, 82, 82},
		{29, intel.ThreatLow, 15, 70},
		{30, intel.ThreatMedium, 15, 25},
		{30, intel.ThreatMedium, 80, 85},
		{49, intel.ThreatMedium, 40, 50},
		{50, intel.ThreatHigh, 40, 55},
		{50, intel.ThreatHigh, 85, 90},
		{69, intel.ThreatHigh, 60, 75},
		{70, intel.ThreatCritical, 60, 85},
		{70, intel.ThreatCritical, 80, 95},
		{0, intel.ThreatLow, 0, 60},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score=%d conf=%d", tt.score, tt.inConfidence), func(t *testing.T) {
			level, conf := deriveLevel(tt.score, tt.inConfidence)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantConfidence, conf)
		})
	}
}
