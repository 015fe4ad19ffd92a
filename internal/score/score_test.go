package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texparts/leads-cli/internal/model"
)

func TestScoreDisqualification(t *testing.T) {
	s := New(DefaultConfig())

	tests := []struct {
		name       string
		lead       model.Lead
		wantReason string
	}{
		{
			name:       "parts supplier flag",
			lead:       model.Lead{Company: "Acme Parts", PartsSupplier: true},
			wantReason: "Spare parts supplier (competitor)",
		},
		{
			name:       "machinery supplier flag",
			lead:       model.Lead{Company: "Acme Makina", MachinerySupplier: true},
			wantReason: "Machinery supplier (competitor)",
		},
		{
			name:       "trading company flag",
			lead:       model.Lead{Company: "Acme Trade", TradingCompany: true},
			wantReason: "Trading company (not end-user)",
		},
		{
			name:       "entity type distributor",
			lead:       model.Lead{Company: "Acme", EntityType: "Distributor"},
			wantReason: "Entity type: distributor",
		},
		{
			name:       "negative phrase in context",
			lead:       model.Lead{Company: "Acme", Context: "leading textile machinery exporter"},
			wantReason: "Negative signal: textile machinery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score(&tt.lead)
			require.True(t, res.Disqualified)
			assert.Equal(t, model.GradeDisqualified, res.Grade)
			assert.Zero(t, res.Score)
			assert.Equal(t, tt.wantReason, res.DisqualifyReason)
			assert.Equal(t, model.GradeDisqualified, tt.lead.Grade)
			assert.True(t, tt.lead.Disqualified)
		})
	}
}

func TestScoreHotLead(t *testing.T) {
	s := New(DefaultConfig())
	lead := model.Lead{
		Company: "Korteks Mensucat A.Ş.",
		Context: "dyeing and finishing plant with brückner and monforts stenter lines, " +
			"maintenance contract, expansion investment",
		SourceType: "gots",
		Golden:     true,
	}

	res := s.Score(&lead)

	require.False(t, res.Disqualified)
	assert.Equal(t, 30.0, res.ActivityScore)
	assert.Equal(t, 25.0, res.MachineScore)
	assert.Equal(t, 20.0, res.ProfileScore)
	assert.Equal(t, 15.0, res.SignalScore)
	assert.Equal(t, 13.0, res.BonusTotal)
	assert.Equal(t, 100.0, res.Score, "total is capped at 100")
	assert.Equal(t, model.GradeA, res.Grade)
	assert.ElementsMatch(t,
		[]string{"oem_tier1_brückner", "gots_certified", "golden_lead"},
		res.Bonuses)
}

func TestScoreMidLead(t *testing.T) {
	s := New(DefaultConfig())
	lead := model.Lead{
		Company:    "Denizli Tekstil",
		Context:    "tinturaria e acabamento, artos stenter",
		SourceType: "fair_exhibitor",
	}

	res := s.Score(&lead)

	require.False(t, res.Disqualified)
	assert.Equal(t, 30.0, res.ActivityScore)
	assert.Equal(t, 12.0, res.MachineScore, "tier 2 brand only")
	assert.Equal(t, 8.0, res.ProfileScore)
	assert.Equal(t, 10.0, res.SignalScore)
	assert.Equal(t, 3.0, res.BonusTotal)
	assert.Equal(t, 63.0, res.Score)
	assert.Equal(t, model.GradeC, res.Grade)
}

func TestScoreColdLead(t *testing.T) {
	s := New(DefaultConfig())
	lead := model.Lead{
		Company: "Acme Garments",
		Role:    model.RoleCustomer,
	}

	res := s.Score(&lead)

	require.False(t, res.Disqualified)
	assert.Equal(t, 10.0, res.ActivityScore, "producer role floor")
	assert.Equal(t, 0.0, res.MachineScore)
	assert.Equal(t, 8.0, res.ProfileScore)
	assert.Equal(t, 6.0, res.SignalScore)
	assert.Equal(t, 24.0, res.Score)
	assert.Equal(t, model.GradeD, res.Grade)
}

func TestGradeThresholdsConfigurable(t *testing.T) {
	s := New(Config{GradeAMin: 60, GradeBMin: 40, GradeCMin: 20})
	lead := model.Lead{
		Company:    "Denizli Tekstil",
		Context:    "tinturaria e acabamento, artos stenter",
		SourceType: "fair_exhibitor",
	}

	res := s.Score(&lead)
	assert.Equal(t, 63.0, res.Score)
	assert.Equal(t, model.GradeA, res.Grade)
}

func TestPartialConfigFallsBackPerField(t *testing.T) {
	// Setting only thresholds must not zero the bonus weights, and vice
	// versa. Every unset field takes its stock value independently.
	s := New(Config{GradeAMin: 60, GradeBMin: 40, GradeCMin: 20})
	def := DefaultConfig()
	assert.Equal(t, def.BonusTier1, s.cfg.BonusTier1)
	assert.Equal(t, def.BonusTier2, s.cfg.BonusTier2)
	assert.Equal(t, def.BonusCert, s.cfg.BonusCert)
	assert.Equal(t, def.BonusGolden, s.cfg.BonusGolden)

	s = New(Config{BonusTier1: 10})
	assert.Equal(t, def.GradeAMin, s.cfg.GradeAMin)
	assert.Equal(t, def.GradeBMin, s.cfg.GradeBMin)
	assert.Equal(t, def.GradeCMin, s.cfg.GradeCMin)
	assert.Equal(t, 10.0, s.cfg.BonusTier1)
	assert.Equal(t, def.BonusTier2, s.cfg.BonusTier2)

	lead := model.Lead{
		Company:    "Denizli Tekstil",
		Context:    "tinturaria e acabamento, artos stenter",
		SourceType: "fair_exhibitor",
	}
	res := New(Config{GradeAMin: 60, GradeBMin: 40, GradeCMin: 20}).Score(&lead)
	assert.Contains(t, res.Bonuses, "oem_tier2_artos")
	assert.Equal(t, 3.0, res.BonusTotal)
}

func TestVocabularyExtensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExtraFinishingKeywords = []string{"veredelung"}
	cfg.ExtraNegativePhrases = []string{"makina ticaret"}
	s := New(cfg)

	finishing := model.Lead{Company: "Acme GmbH", Context: "veredelung von geweben"}
	res := s.Score(&finishing)
	assert.Equal(t, 15.0, res.ActivityScore, "extra keyword counts as one signal")

	trader := model.Lead{Company: "Acme Makina Ticaret"}
	res = s.Score(&trader)
	assert.True(t, res.Disqualified)
	assert.Equal(t, "Negative signal: makina ticaret", res.DisqualifyReason)
}

func TestBatchStats(t *testing.T) {
	s := New(DefaultConfig())
	leads := []model.Lead{
		{Company: "Acme Garments", Role: model.RoleCustomer},
		{Company: "Acme Parts", PartsSupplier: true},
	}

	stats := s.Batch(leads)

	assert.Equal(t, 2, stats.Scored)
	assert.Equal(t, 1, stats.Disqualified)
	assert.Equal(t, 1, stats.Grades[model.GradeD])
	assert.Equal(t, 1, stats.Grades[model.GradeDisqualified])
}
