// Package gate grades surviving entities A/B/C or rejects records that are
// not companies at all: article titles, job titles, machine names, website
// chrome. Rejection rules run in fixed order and short-circuit; acceptance
// is an additive score over provenance and identification signals.
package gate

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/texparts/leads-cli/internal/model"
)

// rule is one rejection predicate. Rules are evaluated in slice order and
// the first match is terminal.
type rule struct {
	tag   string
	match func(in ruleInput) (string, bool)
}

// ruleInput is the precomputed view of a lead the rejection rules see.
type ruleInput struct {
	company string
	lower   string
	source  string
}

// Gate is the entity quality gate. Construct with New; the zero value is
// not usable.
type Gate struct {
	rules []rule
}

// New builds a Gate with the default ordered rule set.
func New() *Gate {
	return &Gate{rules: defaultRules()}
}

func defaultRules() []rule {
	return []rule{
		{"Empty company name", func(in ruleInput) (string, bool) {
			return "", in.company == ""
		}},
		{"Name too short", func(in ruleInput) (string, bool) {
			return in.company, len(in.company) < 3
		}},
		{"Website menu item", func(in ruleInput) (string, bool) {
			return in.company, isMenuLiteral(in.lower)
		}},
		{"Bare country name", func(in ruleInput) (string, bool) {
			return in.company, isBareCountryName(in.lower)
		}},
		{"Article fragment", func(in ruleInput) (string, bool) {
			return in.company, articleFragment.MatchString(in.company)
		}},
		{"Title pattern", func(in ruleInput) (string, bool) {
			return clip(in.company), titlePatterns.MatchString(in.company)
		}},
		{"Sentence fragment", func(in ruleInput) (string, bool) {
			return clip(in.company), sentencePatterns.MatchString(in.company)
		}},
		{"Person/role pattern", func(in ruleInput) (string, bool) {
			return clip(in.company), personPatterns.MatchString(in.company)
		}},
		{"Garbage word", func(in ruleInput) (string, bool) {
			_, ok := garbageWords[in.lower]
			return in.company, ok
		}},
		{"Truncated name", func(in ruleInput) (string, bool) {
			r := []rune(in.company)
			return clip(in.company), len(r) > 2 && unicode.IsLetter(r[0]) && unicode.IsLower(r[0])
		}},
		{"Adjective + generic noun", func(in ruleInput) (string, bool) {
			return in.company, adjectiveNoun.MatchString(in.company)
		}},
		{"Machine/product name", func(in ruleInput) (string, bool) {
			return clip(in.company), machinePatterns.MatchString(in.company)
		}},
		{"Stenter OEM manufacturer", func(in ruleInput) (string, bool) {
			return in.company, isStenterOEM(in.lower)
		}},
		{"News/media outlet", func(in ruleInput) (string, bool) {
			return in.company, isMediaOutlet(in.lower)
		}},
		{"Single generic term", func(in ruleInput) (string, bool) {
			words := strings.Fields(in.lower)
			if len(words) != 1 {
				return "", false
			}
			_, generic := genericTerms[words[0]]
			return in.company, generic
		}},
		{"All generic terms", func(in ruleInput) (string, bool) {
			return in.company, isAllGeneric(in.lower)
		}},
		{"Rejected source domain", func(in ruleInput) (string, bool) {
			return isRejectedSourceDomain(in.source)
		}},
		{"Name too long", func(in ruleInput) (string, bool) {
			return fmt.Sprintf("%d chars", len(in.company)), len(in.company) > 80
		}},
		{"Multiple colons/pipes", func(in ruleInput) (string, bool) {
			return clip(in.company),
				strings.Count(in.company, ":") > 1 || strings.Contains(in.company, "|")
		}},
		{"Contains URL", func(in ruleInput) (string, bool) {
			return clip(in.company),
				strings.Contains(in.lower, "http") || strings.Contains(in.lower, "www.")
		}},
		{"Starts with number", func(in ruleInput) (string, bool) {
			return clip(in.company),
				leadingDigit.MatchString(in.company) && !strings.Contains(in.lower, "no.")
		}},
	}
}

func clip(s string) string {
	if len(s) > 50 {
		return s[:50]
	}
	return s
}

// Grade evaluates a single lead. Pure: safe for concurrent calls.
func (g *Gate) Grade(lead *model.Lead) model.QualityVerdict {
	in := ruleInput{
		company: model.CleanString(lead.Company),
		source:  model.CleanString(lead.SourceURL),
	}
	in.lower = strings.ToLower(in.company)

	for _, r := range g.rules {
		if detail, hit := r.match(in); hit {
			reason := r.tag
			if detail != "" {
				reason = r.tag + ": " + detail
			}
			return model.QualityVerdict{Grade: model.QualityReject, Reason: reason}
		}
	}
	return g.accept(lead, in)
}

// accept computes the additive acceptance score for a lead that survived
// every rejection rule and maps it to a grade band.
func (g *Gate) accept(lead *model.Lead, in ruleInput) model.QualityVerdict {
	score := 0
	var reasons []string

	if hasLegalSuffix(in.company) {
		score += 2
		reasons = append(reasons, "Has company suffix")
	}

	wordCount := len(strings.Fields(in.company))
	switch {
	case wordCount >= 2:
		score++
		reasons = append(reasons, fmt.Sprintf("%d words", wordCount))
	case wordCount == 1 && len(in.company) < 4:
		score--
		reasons = append(reasons, "Very short name")
	}

	sourceType := strings.ToLower(model.CleanString(lead.SourceType))
	corroborated := lead.HasWebsite() || lead.HasEvidence()
	if _, high := model.HighTrustSources[sourceType]; high {
		score += 2
		reasons = append(reasons, "High trust source: "+sourceType)
	} else if _, medium := model.MediumTrustSources[sourceType]; medium && corroborated {
		// Medium-trust sources self-certify too easily; they only earn the
		// bonus when a website or evidence URL backs the record up.
		score++
		reasons = append(reasons, "Corroborated medium trust source: "+sourceType)
	}

	if lead.HasWebsite() {
		score++
		reasons = append(reasons, "Has website")
	}
	if lead.HasEvidence() {
		score++
		reasons = append(reasons, "Has evidence")
	}

	grade := model.QualityC
	switch {
	case score >= 4:
		grade = model.QualityA
	case score >= 2:
		grade = model.QualityB
	}

	if g.IsPartsSupplier(lead) {
		lead.PartsSupplier = true
		if grade != model.QualityC {
			reasons = append(reasons, "Parts/trading vocabulary: downgraded")
			grade = model.QualityC
		}
	}

	reason := "Default grade"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}
	return model.QualityVerdict{Grade: grade, Reason: reason}
}

// IsPartsSupplier reports whether the lead matches the parts-supplier or
// trading-company vocabulary. Flagging, not rejection: these are real
// companies, just not end-user targets.
func (g *Gate) IsPartsSupplier(lead *model.Lead) bool {
	return matchesPartsSupplierVocab(lead.SearchText())
}

// Stats aggregates gate outcomes for a batch.
type Stats struct {
	Graded   int            `json:"graded"`
	Rejected int            `json:"rejected"`
	Grades   map[string]int `json:"grades"`
	Reasons  map[string]int `json:"reasons"`
}

// Apply grades every lead, annotates survivors, and drops rejects.
// Rejected leads never travel further down the pipeline.
func (g *Gate) Apply(leads []model.Lead) ([]model.Lead, Stats) {
	stats := Stats{
		Grades:  map[string]int{},
		Reasons: map[string]int{},
	}

	var qualified []model.Lead
	for i := range leads {
		lead := &leads[i]
		verdict := g.Grade(lead)
		stats.Graded++
		stats.Grades[verdict.Grade]++
		if verdict.Rejected() {
			stats.Rejected++
			category, _, _ := strings.Cut(verdict.Reason, ":")
			stats.Reasons[category]++
			zap.L().Debug("gate: rejected",
				zap.String("company", lead.Company),
				zap.String("reason", verdict.Reason),
			)
			continue
		}
		lead.EntityQuality = verdict.Grade
		lead.GradeReason = verdict.Reason
		qualified = append(qualified, *lead)
	}

	zap.L().Info("quality gate complete",
		zap.Int("input", len(leads)),
		zap.Int("qualified", len(qualified)),
		zap.Int("rejected", stats.Rejected),
	)
	return qualified, stats
}
