package intel

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", Record{DecisionDate: "2024-03-01", StartDate: "2020-01-01"}.EffectiveDate())
	assert.Equal(t, "2020-01-01", Record{StartDate: "2020-01-01"}.EffectiveDate())
	assert.Equal(t, "", Record{}.EffectiveDate())
}

func TestProductOrTrial(t *testing.T) {
	assert.Equal(t, "AcrySof IQ", Record{DeviceName: "AcrySof IQ", TrialTitle: "ignored"}.ProductOrTrial())
	assert.Equal(t, "Phase III Study", Record{TrialTitle: "Phase III Study"}.ProductOrTrial())
	assert.Equal(t, "Unknown", Record{}.ProductOrTrial())
}

func TestQueryEffectiveTerm(t *testing.T) {
	assert.Equal(t, "glaucoma", Query{SearchTerm: "glaucoma", TherapeuticFocus: "All Categories"}.EffectiveTerm())
	assert.Equal(t, "ophthalmology", Query{SearchTerm: "glaucoma", TherapeuticFocus: "Ophthalmology"}.EffectiveTerm())
	assert.Equal(t, "", Query{}.EffectiveTerm())
}

// The export document must round-trip losslessly: integers stay integers,
// nested lists and maps are preserved, absent fields are omitted rather than
// emitted as empty strings.
func TestReportRoundTrip(t *testing.T) {
	report := Report{
		ReportID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Query:       Query{SearchTerm: "intraocular", DaysBack: 365, Depth: DepthDeep},
		Summary: ExecutiveSummary{
			ThreatOverview:    ThreatOverview{ThreatCritical: 1, ThreatHigh: 0, ThreatMedium: 0, ThreatLow: 0},
			AverageConfidence: 95,
			TotalRecords:      1,
			CriticalThreats: []CriticalThreat{{
				Company:      "alcon laboratories",
				Product:      "acrysof iq vivity",
				ThreatScore:  110,
				Confidence:   95,
				UrgentAction: "IMMEDIATE: Executive briefing on alcon laboratories's acrysof iq vivity",
			}},
			HighThreats:      []HighThreat{},
			ExecutiveSummary: "Helix Insights analyzed 1 competitive records...",
		},
		DetailedRecords: []ScoredRecord{{
			Record: Record{
				Source:       "FDA 510(k)",
				Company:      "Alcon Laboratories",
				DeviceName:   "AcrySof IQ Vivity",
				ProductCode:  "HQL",
				DecisionDate: "2026-02-01",
				Status:       "Approved",
			},
			MadisonIntelligence: Assessment{
				ThreatScore:           110,
				ThreatLevel:           ThreatCritical,
				Confidence:            95,
				StrategicImplications: []string{"Recent approval/trial within last 2 years"},
				ActionItems: []ActionItem{{
					Priority: "URGENT",
					Action:   "IMMEDIATE: Executive briefing on alcon laboratories's acrysof iq vivity",
					Timeline: "Within 48 hours",
					Owner:    "Executive Leadership",
				}},
				AnalysisTimestamp: "2026-03-14T09:30:00Z",
				AgentVersion:      "Madison_Intelligence_v1.3",
			},
		}},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report, decoded)

	// Record fields are inlined next to madisonIntelligence, as the export
	// document requires.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	records := raw["detailedRecords"].([]interface{})
	first := records[0].(map[string]interface{})
	assert.Equal(t, "FDA 510(k)", first["source"])
	assert.Contains(t, first, "madisonIntelligence")
	assert.NotContains(t, first, "trialTitle")
}

func TestRecordOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(Record{Source: "ClinicalTrials.gov", TrialTitle: "Phase 2 Study", StartDate: NotAvailable})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "N/A", raw["startDate"])
	assert.NotContains(t, raw, "deviceName")
	assert.NotContains(t, raw, "decisionDate")
}
