// Package model defines the lead record and its pipeline annotations.
package model

import (
	"strings"
)

// Lead is a candidate company record harvested from any source. It is
// mutated in place as it passes through the pipeline stages; ownership is
// exclusive to the stage currently processing it.
type Lead struct {
	Company     string `json:"company" db:"company"`
	Country     string `json:"country,omitempty" db:"country"`
	Context     string `json:"context,omitempty" db:"context"`
	Segment     string `json:"segment,omitempty" db:"segment"`
	EntityType  string `json:"entity_type,omitempty" db:"entity_type"`
	SourceType  string `json:"source_type,omitempty" db:"source_type"`
	SourceURL   string `json:"source_url,omitempty" db:"source_url"`
	EvidenceURL string `json:"evidence_url,omitempty" db:"evidence_url"`

	Website         string   `json:"website,omitempty" db:"website"`
	Websites        []string `json:"websites,omitempty" db:"websites"`
	Emails          []string `json:"emails,omitempty" db:"emails"`
	Phones          []string `json:"phones,omitempty" db:"phones"`
	CountryMentions []string `json:"country_mentions,omitempty" db:"country_mentions"`

	Certification string `json:"certification,omitempty" db:"certification"`

	// Supplier flags set by collectors or the quality gate.
	MachinerySupplier bool `json:"is_machinery_supplier,omitempty" db:"is_machinery_supplier"`
	PartsSupplier     bool `json:"is_parts_supplier,omitempty" db:"is_parts_supplier"`
	TradingCompany    bool `json:"is_trading_company,omitempty" db:"is_trading_company"`
	Golden            bool `json:"is_golden,omitempty" db:"is_golden"`

	// Quality gate annotations.
	EntityQuality string `json:"entity_quality,omitempty" db:"entity_quality"`
	GradeReason   string `json:"grade_reason,omitempty" db:"grade_reason"`

	// Role classifier annotations.
	Role           string   `json:"role,omitempty" db:"role"`
	RoleConfidence string   `json:"role_confidence,omitempty" db:"role_confidence"`
	RoleSignals    []string `json:"role_signals,omitempty" db:"role_signals"`

	// Scoring engine annotations.
	ActivityScore   float64  `json:"activity_score" db:"activity_score"`
	MachineScore    float64  `json:"machine_score" db:"machine_score"`
	ProfileScore    float64  `json:"profile_score" db:"profile_score"`
	SignalScore     float64  `json:"signal_score" db:"signal_score"`
	BonusTotal      float64  `json:"bonus_total" db:"bonus_total"`
	Bonuses         []string `json:"bonuses,omitempty" db:"bonuses"`
	Score           float64  `json:"score" db:"score"`
	Grade           string   `json:"grade,omitempty" db:"grade"`
	Disqualified    bool     `json:"disqualified,omitempty" db:"disqualified"`
	DisqualifyReason string  `json:"disqualify_reason,omitempty" db:"disqualify_reason"`
}

// sentinel values that CSV staging writes for absent fields.
var absentSentinels = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
	"null": {},
	"n/a":  {},
	"[]":   {},
	"{}":   {},
}

// CleanString returns s trimmed, or "" when it holds a CSV absence sentinel.
func CleanString(s string) string {
	t := strings.TrimSpace(s)
	if _, absent := absentSentinels[strings.ToLower(t)]; absent {
		return ""
	}
	return t
}

// CleanList drops empty and sentinel entries and deduplicates, preserving
// first-seen order.
func CleanList(vals []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		c := CleanString(v)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// AnyWebsite returns the first usable website field on the lead.
func (l *Lead) AnyWebsite() string {
	if w := CleanString(l.Website); w != "" {
		return w
	}
	for _, w := range l.Websites {
		if c := CleanString(w); c != "" {
			return c
		}
	}
	return ""
}

// HasWebsite reports whether any website field is populated.
func (l *Lead) HasWebsite() bool { return l.AnyWebsite() != "" }

// HasEvidence reports whether an evidence URL is populated.
func (l *Lead) HasEvidence() bool { return CleanString(l.EvidenceURL) != "" }

// SearchText returns the case-folded text the classifiers match against.
func (l *Lead) SearchText() string {
	return strings.ToLower(strings.TrimSpace(l.Company + " " + l.Context))
}
