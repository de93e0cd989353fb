package madison

import (
	"math"
	"time"

	"github.com/helix-insights/madison/pkg/types/intel"
)

// dateLayout is the only date format providers emit.
const dateLayout = "2006-01-02"

// IsDateRecent reports whether dateString falls in the closed interval
// [now-thresholdDays, now].  The check is asymmetric on purpose: it answers
// "was this on-or-before now, within N days", so a future date is never
// recent.
//
// Empty strings, the "N/A" sentinel, and anything that does not parse as
// YYYY-MM-DD all evaluate to false; the function never returns an error.
func IsDateRecent(now time.Time, dateString string, thresholdDays int) bool {
	if dateString == "" || dateString == intel.NotAvailable {
		return false
	}
	parsed, err := time.Parse(dateLayout, dateString)
	if err != nil {
		return false
	}
	// Whole days elapsed, floored: a date even one hour ahead of now must
	// come out negative, not zero.
	days := int(math.Floor(now.Sub(parsed).Hours() / 24))
	return days >= 0 && days <= thresholdDays
}
