// Package score implements the 100-point commercial scoring model:
// activity fit (30), machine evidence (25), company profile (25), purchase
// signals (20), plus capped bonuses. Disqualification is checked first and
// is terminal.
package score

import (
	"strings"

	"go.uber.org/zap"

	"github.com/texparts/leads-cli/internal/model"
)

// Target stenter brands. Tier 1 machines are the parts we stock; tier 2 are
// compatible alternatives.
var (
	oemTier1 = []string{"brückner", "bruckner", "monforts", "krantz"}
	oemTier2 = []string{"artos", "santex", "babcock", "goller", "benninger", "thies"}
)

// finishingKeywords signal dyeing/finishing activity across the markets the
// pipeline covers.
var finishingKeywords = []string{
	// tr
	"ramöz", "ramoz", "stenter", "boyahane", "terbiye", "apre",
	"boya tesisi", "boyama", "germe makinesi", "kurutma", "fikse",
	// en
	"finishing", "dyeing", "dyehouse", "mercerizing", "sanforizing",
	"calendering", "heat setting", "stentering", "textile mill",
	// pt
	"tinturaria", "acabamento", "beneficiamento", "alvejamento",
	// es
	"tintorería", "acabado", "blanqueo", "teñido",
	// fr
	"teinture", "finition", "blanchiment",
	// vi
	"nhuộm", "hoàn tất", "sấy",
	// ru
	"красильная", "отделка", "текстиль",
}

// negativePhrases disqualify outright. Full phrases, not single words, to
// keep "machine" inside a mill description from killing the lead.
var negativePhrases = []string{
	"machinery supplier", "machine manufacturer", "spare parts dealer",
	"spare parts supplier", "parts distributor", "machine dealer",
	"trading company", "textile machinery", "machinery trading",
	"maschinenhandel", "ersatzteilhandel",
	"makine üreticisi", "yedek parça satıcısı", "makine distribütörü",
}

// disqualifyingEntityTypes are never end users of the machines.
var disqualifyingEntityTypes = map[string]string{
	"supplier":    "Entity type: supplier",
	"distributor": "Entity type: distributor",
	"trader":      "Entity type: trader",
	"agent":       "Entity type: agent",
}

// Config carries the tunable thresholds, bonus values, and optional
// vocabulary extensions.
type Config struct {
	GradeAMin   float64
	GradeBMin   float64
	GradeCMin   float64
	BonusTier1  float64
	BonusTier2  float64
	BonusCert   float64
	BonusGolden float64

	ExtraFinishingKeywords []string
	ExtraNegativePhrases   []string
}

// DefaultConfig returns the stock thresholds: A>=85, B>=70, C>=50.
func DefaultConfig() Config {
	return Config{
		GradeAMin:   85,
		GradeBMin:   70,
		GradeCMin:   50,
		BonusTier1:  5,
		BonusTier2:  3,
		BonusCert:   3,
		BonusGolden: 5,
	}
}

// Scorer scores leads against the 100-point model.
type Scorer struct {
	cfg       Config
	finishing []string
	negative  []string
}

// New builds a Scorer. Unset thresholds and bonus weights fall back to
// their DefaultConfig values field by field, so a partial Config never
// silently zeroes a weight.
func New(cfg Config) *Scorer {
	def := DefaultConfig()
	cfg.GradeAMin = pick(cfg.GradeAMin, def.GradeAMin)
	cfg.GradeBMin = pick(cfg.GradeBMin, def.GradeBMin)
	cfg.GradeCMin = pick(cfg.GradeCMin, def.GradeCMin)
	cfg.BonusTier1 = pick(cfg.BonusTier1, def.BonusTier1)
	cfg.BonusTier2 = pick(cfg.BonusTier2, def.BonusTier2)
	cfg.BonusCert = pick(cfg.BonusCert, def.BonusCert)
	cfg.BonusGolden = pick(cfg.BonusGolden, def.BonusGolden)
	return &Scorer{
		cfg:       cfg,
		finishing: append(append([]string{}, finishingKeywords...), cfg.ExtraFinishingKeywords...),
		negative:  append(append([]string{}, negativePhrases...), cfg.ExtraNegativePhrases...),
	}
}

func pick(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}

// Score evaluates one lead and writes the result into its annotation
// fields. A disqualified lead gets score 0 and grade X with no sub-scores.
func (s *Scorer) Score(lead *model.Lead) model.ScoreResult {
	if reason, out := s.disqualify(lead); out {
		res := model.ScoreResult{
			Grade:            model.GradeDisqualified,
			Disqualified:     true,
			DisqualifyReason: reason,
		}
		apply(lead, res)
		return res
	}

	text := lead.SearchText()
	activity := s.activityFit(lead, text)
	machine := s.machineEvidence(lead, text)
	profile := s.companyProfile(lead)
	signals := s.purchaseSignals(lead)
	bonuses, bonusTotal := s.bonuses(lead, text)

	total := activity + machine + profile + signals + bonusTotal
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	res := model.ScoreResult{
		Score:         total,
		Grade:         s.grade(total),
		ActivityScore: activity,
		MachineScore:  machine,
		ProfileScore:  profile,
		SignalScore:   signals,
		BonusTotal:    bonusTotal,
		Bonuses:       bonuses,
	}
	apply(lead, res)
	return res
}

func apply(lead *model.Lead, res model.ScoreResult) {
	lead.Score = res.Score
	lead.Grade = res.Grade
	lead.ActivityScore = res.ActivityScore
	lead.MachineScore = res.MachineScore
	lead.ProfileScore = res.ProfileScore
	lead.SignalScore = res.SignalScore
	lead.BonusTotal = res.BonusTotal
	lead.Bonuses = res.Bonuses
	lead.Disqualified = res.Disqualified
	lead.DisqualifyReason = res.DisqualifyReason
}

func (s *Scorer) disqualify(lead *model.Lead) (string, bool) {
	switch {
	case lead.MachinerySupplier:
		return "Machinery supplier (competitor)", true
	case lead.PartsSupplier:
		return "Spare parts supplier (competitor)", true
	case lead.TradingCompany:
		return "Trading company (not end-user)", true
	}

	entityType := strings.ToLower(model.CleanString(lead.EntityType))
	if reason, ok := disqualifyingEntityTypes[entityType]; ok {
		return reason, true
	}

	text := lead.SearchText()
	for _, phrase := range s.negative {
		if strings.Contains(text, phrase) {
			return "Negative signal: " + phrase, true
		}
	}
	return "", false
}

// activityFit: max 30. Finishing evidence counts signals; a known producer
// role earns a floor of 10 without any.
func (s *Scorer) activityFit(lead *model.Lead, text string) float64 {
	segment := strings.ToLower(model.CleanString(lead.Segment))
	haystack := text + " " + segment

	hits := 0
	for _, kw := range s.finishing {
		if strings.Contains(haystack, kw) {
			hits++
		}
	}

	switch {
	case hits >= 3:
		return 30
	case hits == 2:
		return 25
	case hits == 1:
		return 15
	}

	switch lead.Role {
	case model.RoleCustomer:
		return 10
	}
	return 5
}

// machineEvidence: max 25. Two tier 1 brands, or one plus a maintenance
// signal, is the strongest evidence a parts order follows.
func (s *Scorer) machineEvidence(lead *model.Lead, text string) float64 {
	var tier1, tier2 []string
	for _, b := range oemTier1 {
		if strings.Contains(text, b) {
			tier1 = append(tier1, b)
		}
	}
	for _, b := range oemTier2 {
		if strings.Contains(text, b) {
			tier2 = append(tier2, b)
		}
	}

	maintenance := strings.Contains(text, "maintenance") || strings.Contains(text, "bakım")

	switch {
	case len(tier1) >= 2 || (len(tier1) >= 1 && maintenance):
		return 25
	case len(tier1) >= 1:
		return 20
	case len(tier2) >= 1:
		return 12
	case s.hasFinishing(text):
		return 8
	}
	return 0
}

func (s *Scorer) hasFinishing(text string) bool {
	for _, kw := range s.finishing {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// companyProfile: max 25. Certifications dominate; size indicators from the
// context fill in below them.
func (s *Scorer) companyProfile(lead *model.Lead) float64 {
	sourceType := strings.ToLower(model.CleanString(lead.SourceType))
	certification := strings.ToLower(model.CleanString(lead.Certification))

	var certs []string
	if strings.Contains(sourceType, "gots") || strings.Contains(certification, "gots") {
		certs = append(certs, "GOTS")
	}
	if strings.Contains(sourceType, "oekotex") || strings.Contains(certification, "oeko") {
		certs = append(certs, "OEKO-TEX")
	}
	if strings.Contains(sourceType, "bettercotton") || strings.Contains(certification, "bci") {
		certs = append(certs, "BCI")
	}

	context := strings.ToLower(model.CleanString(lead.Context))
	large := containsAny(context, "500", "1000", "group", "holding", "large")
	medium := containsAny(context, "100", "200", "factory", "plant")

	switch {
	case len(certs) >= 2 || (len(certs) >= 1 && large):
		return 25
	case len(certs) >= 1:
		return 20
	case large:
		return 15
	case medium:
		return 12
	}
	return 8
}

// purchaseSignals: max 20. Provenance and context hints that a budget is
// moving: fairs, trade imports, expansion and investment news.
func (s *Scorer) purchaseSignals(lead *model.Lead) float64 {
	sourceType := strings.ToLower(model.CleanString(lead.SourceType))
	context := strings.ToLower(model.CleanString(lead.Context))

	signals := 0
	if strings.Contains(sourceType, "fair") {
		signals++
	}
	if strings.Contains(sourceType, "job") {
		signals++
	}
	if strings.Contains(sourceType, "trade") || strings.Contains(sourceType, "import") {
		signals++
	}
	if containsAny(context, "expansion", "genişleme", "new plant", "yeni tesis") {
		signals++
	}
	if containsAny(context, "modernization", "retrofit", "yenileme") {
		signals++
	}
	if containsAny(context, "investment", "yatırım") {
		signals++
	}

	switch {
	case signals >= 3:
		return 20
	case signals == 2:
		return 15
	case signals == 1:
		return 10
	}
	return 6
}

func (s *Scorer) bonuses(lead *model.Lead, text string) ([]string, float64) {
	var bonuses []string
	total := 0.0

	if brand := firstBrand(text, oemTier1); brand != "" {
		bonuses = append(bonuses, "oem_tier1_"+brand)
		total += s.cfg.BonusTier1
	} else if brand := firstBrand(text, oemTier2); brand != "" {
		bonuses = append(bonuses, "oem_tier2_"+brand)
		total += s.cfg.BonusTier2
	}

	sourceType := strings.ToLower(model.CleanString(lead.SourceType))
	if sourceType == "gots" {
		bonuses = append(bonuses, "gots_certified")
		total += s.cfg.BonusCert
	}
	if sourceType == "oekotex" {
		bonuses = append(bonuses, "oekotex_certified")
		total += s.cfg.BonusCert
	}

	if lead.Golden {
		bonuses = append(bonuses, "golden_lead")
		total += s.cfg.BonusGolden
	}
	return bonuses, total
}

func firstBrand(text string, brands []string) string {
	for _, b := range brands {
		if strings.Contains(text, b) {
			return b
		}
	}
	return ""
}

func (s *Scorer) grade(total float64) string {
	switch {
	case total >= s.cfg.GradeAMin:
		return model.GradeA
	case total >= s.cfg.GradeBMin:
		return model.GradeB
	case total >= s.cfg.GradeCMin:
		return model.GradeC
	}
	return model.GradeD
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Stats aggregates scoring outcomes for a batch.
type Stats struct {
	Scored       int            `json:"scored"`
	Disqualified int            `json:"disqualified"`
	Grades       map[string]int `json:"grades"`
}

// Batch scores every lead in place and returns grade counts.
func (s *Scorer) Batch(leads []model.Lead) Stats {
	stats := Stats{Grades: map[string]int{}}
	for i := range leads {
		res := s.Score(&leads[i])
		stats.Scored++
		stats.Grades[res.Grade]++
		if res.Disqualified {
			stats.Disqualified++
		}
	}
	zap.L().Info("scoring complete",
		zap.Int("scored", stats.Scored),
		zap.Int("grade_a", stats.Grades[model.GradeA]),
		zap.Int("grade_b", stats.Grades[model.GradeB]),
		zap.Int("grade_c", stats.Grades[model.GradeC]),
		zap.Int("grade_d", stats.Grades[model.GradeD]),
		zap.Int("disqualified", stats.Disqualified),
	)
	return stats
}
