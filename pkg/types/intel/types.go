// Package intel defines the shared data-transfer types exchanged between the
// data providers, the Madison scoring core, and the interface layers.  The
// JSON field names are the wire names used by the exported report document.
package intel

import (
	"strings"
	"time"
)

// NotAvailable is the sentinel providers emit for a date they could not read.
const NotAvailable = "N/A"

// ThreatLevel is the coarse four-tier classification derived from the numeric
// threat score.
type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "CRITICAL"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatLow      ThreatLevel = "LOW"
)

// Levels lists all threat levels from most to least severe.
func Levels() []ThreatLevel {
	return []ThreatLevel{ThreatCritical, ThreatHigh, ThreatMedium, ThreatLow}
}

// Record is one normalized competitive-intelligence item (a device clearance
// or a clinical trial entry).  Every field beyond Source is optional: the
// scoring core treats missing values as "no evidence", never as an error.
type Record struct {
	// Source labels provenance.  The scorer recognizes "FDA" and "Clinical"
	// substrings; providers emit "FDA 510(k)" and "ClinicalTrials.gov".
	Source string `json:"source"`

	Company     string `json:"company,omitempty"`
	DeviceName  string `json:"deviceName,omitempty"`
	TrialTitle  string `json:"trialTitle,omitempty"`
	NCTID       string `json:"nctId,omitempty"`
	ProductCode string `json:"productCode,omitempty"`

	// DecisionDate and StartDate are YYYY-MM-DD strings, the literal "N/A",
	// or empty.  The core reads DecisionDate first, falling back to StartDate.
	DecisionDate string `json:"decisionDate,omitempty"`
	StartDate    string `json:"startDate,omitempty"`

	Status          string `json:"status,omitempty"`
	RegulatoryClass string `json:"regulatoryClass,omitempty"`
	Phase           string `json:"phase,omitempty"`
}

// EffectiveDate returns the date string the recency factor evaluates:
// DecisionDate when set, StartDate otherwise.
func (r Record) EffectiveDate() string {
	if r.DecisionDate != "" {
		return r.DecisionDate
	}
	return r.StartDate
}

// ProductOrTrial returns the device name when set, else the trial title,
// else "Unknown".
func (r Record) ProductOrTrial() string {
	if r.DeviceName != "" {
		return r.DeviceName
	}
	if r.TrialTitle != "" {
		return r.TrialTitle
	}
	return "Unknown"
}

// ActionItem is one recommended follow-up produced for an assessed record.
type ActionItem struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Timeline string `json:"timeline"`
	Owner    string `json:"owner"`
}

// Assessment is the scoring result attached to each record.  It is created
// once per record per run and never mutated afterwards.
type Assessment struct {
	ThreatScore           int          `json:"threatScore"`
	ThreatLevel           ThreatLevel  `json:"threatLevel"`
	Confidence            int          `json:"confidence"`
	StrategicImplications []string     `json:"strategicImplications"`
	ActionItems           []ActionItem `json:"actionItems"`
	AnalysisTimestamp     string       `json:"analysisTimestamp"`
	AgentVersion          string       `json:"agentVersion"`
}

// ScoredRecord pairs a record with its assessment.  The original record
// fields are embedded unchanged.
type ScoredRecord struct {
	Record
	MadisonIntelligence Assessment `json:"madisonIntelligence"`
}

// ThreatOverview maps each of the four threat levels to its record count.
// All four keys are always present, zero-valued when absent from the batch.
type ThreatOverview map[ThreatLevel]int

// CriticalThreat is the summary projection of a CRITICAL record.
type CriticalThreat struct {
	Company      string `json:"company"`
	Product      string `json:"product"`
	ThreatScore  int    `json:"threatScore"`
	Confidence   int    `json:"confidence"`
	UrgentAction string `json:"urgentAction"`
}

// HighThreat is the summary projection of a HIGH record.
type HighThreat struct {
	Company     string `json:"company"`
	Product     string `json:"product"`
	ThreatScore int    `json:"threatScore"`
	Confidence  int    `json:"confidence"`
}

// ExecutiveSummary is the read-only aggregate derived from one scored batch.
type ExecutiveSummary struct {
	ThreatOverview    ThreatOverview   `json:"threatOverview"`
	AverageConfidence int              `json:"averageConfidence"`
	TotalRecords      int              `json:"totalRecords"`
	CriticalThreats   []CriticalThreat `json:"criticalThreats"`
	HighThreats       []HighThreat     `json:"highThreats"`
	ExecutiveSummary  string           `json:"executiveSummary"`
}

// Depth selects how many records an analysis run retains.
type Depth string

const (
	DepthQuick Depth = "quick"
	DepthDeep  Depth = "deep"
)

// Query carries the user-selected parameters of one analysis run.
type Query struct {
	// SearchTerm filters both providers; blank means a broad scan.
	SearchTerm string `json:"searchTerm,omitempty"`

	// TherapeuticFocus replaces a blank SearchTerm with its lowercased name
	// when it is not "All Categories".
	TherapeuticFocus string `json:"therapeuticFocus,omitempty"`

	// DaysBack bounds the provider fetch window.
	DaysBack int `json:"daysBack"`

	// Depth caps the analyzed batch (quick: 50, deep: 200).
	Depth Depth `json:"depth,omitempty"`
}

// EffectiveTerm resolves the provider search term from SearchTerm and
// TherapeuticFocus.
func (q Query) EffectiveTerm() string {
	if q.TherapeuticFocus != "" && q.TherapeuticFocus != "All Categories" {
		return strings.ToLower(q.TherapeuticFocus)
	}
	return q.SearchTerm
}

// Report is the full output of one analysis run: the executive summary plus
// every scored record.  Serializing a Report produces the downloadable
// document byte-for-byte.
type Report struct {
	ReportID        string           `json:"reportId"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Query           Query            `json:"query"`
	Summary         ExecutiveSummary `json:"summary"`
	DetailedRecords []ScoredRecord   `json:"detailedRecords"`
}

// TableRow is the tabular display projection of one scored record.
type TableRow struct {
	Company      string      `json:"company"`
	ProductTrial string      `json:"productTrial"`
	Source       string      `json:"source"`
	ThreatLevel  ThreatLevel `json:"threatLevel"`
	ThreatScore  int         `json:"threatScore"`
	Confidence   string      `json:"confidence"`
	Date         string      `json:"date"`
}

