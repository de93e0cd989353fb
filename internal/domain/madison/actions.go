package madison

import (
	"fmt"

	"github.com/helix-insights/madison/pkg/types/intel"
)

// Action priorities.
const (
	PriorityUrgent = "URGENT"
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// RecommendActions produces the ordered follow-up list for a threat level.
// The rules are additive: a CRITICAL record accumulates the urgent, high, and
// medium items, and every record ends with the quarterly-review item, so the
// output length is 4, 3, 2, or 1 depending on the level.
//
// The scorer passes its lowercased company and product/trial names; blank
// names fall back to "Competitor" and "device".
func RecommendActions(level intel.ThreatLevel, company, product string) []intel.ActionItem {
	if company == "" {
		company = "Competitor"
	}
	if product == "" {
		product = "device"
	}

	actions := make([]intel.ActionItem, 0, 4)

	if level == intel.ThreatCritical {
		actions = append(actions, intel.ActionItem{
			Priority: PriorityUrgent,
			Action:   fmt.Sprintf("IMMEDIATE: Executive briefing on %s's %s", company, product),
			Timeline: "Within 48 hours",
			Owner:    "Executive Leadership",
		})
	}

	if level == intel.ThreatHigh || level == intel.ThreatCritical {
		actions = append(actions, intel.ActionItem{
			Priority: PriorityHigh,
			Action:   fmt.Sprintf("Competitive deep-dive: %s strategy and positioning", company),
			Timeline: "Within 2 weeks",
			Owner:    "Competitive Intelligence",
		})
	}

	if level == intel.ThreatMedium || level == intel.ThreatHigh || level == intel.ThreatCritical {
		actions = append(actions, intel.ActionItem{
			Priority: PriorityMedium,
			Action:   fmt.Sprintf("Monitor %s market activities", company),
			Timeline: "Next 90 days",
			Owner:    "Market Intelligence",
		})
	}

	actions = append(actions, intel.ActionItem{
		Priority: PriorityLow,
		Action:   "Include in quarterly competitive review",
		Timeline: "Quarterly",
		Owner:    "Strategic Planning",
	})

	return actions
}
