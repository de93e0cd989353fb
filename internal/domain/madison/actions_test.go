package madison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helix-insights/madison/pkg/types/intel"
)

func priorities(items []intel.ActionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Priority
	}
	return out
}

func TestRecommendActionsCritical(t *testing.T) {
	got := RecommendActions(intel.ThreatCritical, "alcon", "acrysof iq")

	require.Len(t, got, 4)
	assert.Equal(t, []string{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}, priorities(got))

	assert.Equal(t, "IMMEDIATE: Executive briefing on alcon's acrysof iq", got[0].Action)
	assert.Equal(t, "Within 48 hours", got[0].Timeline)
	assert.Equal(t, "Executive Leadership", got[0].Owner)

	assert.Equal(t, "Competitive deep-dive: alcon strategy and positioning", got[1].Action)
	assert.Equal(t, "Within 2 weeks", got[1].Timeline)
	assert.Equal(t, "Competitive Intelligence", got[1].Owner)

	assert.Equal(t, "Monitor alcon market activities", got[2].Action)
	assert.Equal(t, "Next 90 days", got[2].Timeline)
	assert.Equal(t, "Market Intelligence", got[2].Owner)

	assert.Equal(t, "Include in quarterly competitive review", got[3].Action)
	assert.Equal(t, "Quarterly", got[3].Timeline)
	assert.Equal(t, "Strategic Planning", got[3].Owner)
}

func TestRecommendActionsHigh(t *testing.T) {
	got := RecommendActions(intel.ThreatHigh, "zeiss", "iol injector")
	require.Len(t, got, 3)
	assert.Equal(t, []string{PriorityHigh, PriorityMedium, PriorityLow}, priorities(got))
}

func TestRecommendActionsMedium(t *testing.T) {
	got := RecommendActions(intel.ThreatMedium, "hoya", "lens")
	require.Len(t, got, 2)
	assert.Equal(t, []string{PriorityMedium, PriorityLow}, priorities(got))
}

func TestRecommendActionsLow(t *testing.T) {
	got := RecommendActions(intel.ThreatLow, "", "")
	require.Len(t, got, 1)
	assert.Equal(t, PriorityLow, got[0].Priority)
	assert.Equal(t, "Include in quarterly competitive review", got[0].Action)
}

func TestRecommendActionsBlankNameFallbacks(t *testing.T) {
	got := RecommendActions(intel.ThreatCritical, "", "")
	assert.Equal(t, "IMMEDIATE: Executive briefing on Competitor's device", got[0].Action)
	assert.Equal(t, "Monitor Competitor market activities", got[2].Action)
}
