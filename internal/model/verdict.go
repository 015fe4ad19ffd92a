package model

// Quality grades assigned by the entity quality gate.
const (
	QualityA      = "A"
	QualityB      = "B"
	QualityC      = "C"
	QualityReject = "REJECT"
)

// QualityVerdict is the gate's decision for a single lead.
type QualityVerdict struct {
	Grade  string `json:"grade"`
	Reason string `json:"reason"`
}

// Rejected reports whether the verdict removes the lead from the pipeline.
func (v QualityVerdict) Rejected() bool { return v.Grade == QualityReject }

// Role labels.
const (
	RoleCustomer     = "CUSTOMER"
	RoleIntermediary = "INTERMEDIARY"
	RoleUnknown      = "UNKNOWN"
)

// Role confidence bands.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// RoleLabel is the role classifier's decision for a single lead.
type RoleLabel struct {
	Role       string   `json:"role"`
	Confidence string   `json:"confidence"`
	Signals    []string `json:"signals,omitempty"`
}

// Commercial grades assigned by the scoring engine. X is terminal: the lead
// is disqualified regardless of sub-scores.
const (
	GradeA            = "A"
	GradeB            = "B"
	GradeC            = "C"
	GradeD            = "D"
	GradeDisqualified = "X"
)

// ScoreResult is the scoring engine's decision for a single lead.
type ScoreResult struct {
	Score            float64  `json:"score"`
	Grade            string   `json:"grade"`
	ActivityScore    float64  `json:"activity_score"`
	MachineScore     float64  `json:"machine_score"`
	ProfileScore     float64  `json:"profile_score"`
	SignalScore      float64  `json:"signal_score"`
	BonusTotal       float64  `json:"bonus_total"`
	Bonuses          []string `json:"bonuses,omitempty"`
	Disqualified     bool     `json:"disqualified"`
	DisqualifyReason string   `json:"disqualify_reason,omitempty"`
}
