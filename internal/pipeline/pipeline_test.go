package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texparts/leads-cli/internal/config"
	"github.com/texparts/leads-cli/internal/model"
	"github.com/texparts/leads-cli/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		Dedupe: config.DedupeConfig{SimilarityThreshold: 0.92, Matcher: "sequence"},
		Batch:  config.BatchConfig{MaxConcurrentLeads: 4},
	}
}

func testLeads() []model.Lead {
	return []model.Lead{
		{
			Company:    "Korteks Mensucat A.Ş.",
			Country:    "Turkey",
			Context:    "dyeing and finishing mill",
			SourceType: "gots",
			Website:    "korteks.com.tr",
		},
		{
			Company:    "Korteks",
			SourceType: "web_scrape",
			Website:    "https://www.korteks.com.tr/en",
			Emails:     []string{"info@korteks.com.tr"},
		},
		{
			Company:    "Stenter Machine: Types,",
			SourceType: "brave_search",
		},
		{
			Company:    "Anadolu Makina Trading Co",
			Context:    "textile machinery spare parts distributor",
			SourceType: "directory",
		},
	}
}

func TestRunWithoutStore(t *testing.T) {
	p, err := New(testConfig(), nil)
	require.NoError(t, err)

	result, err := p.Run(context.Background(), testLeads(), "test batch")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.Input)
	assert.Equal(t, 1, result.Stats.Merged)
	assert.Equal(t, 1, result.Stats.Rejected)
	assert.Equal(t, 1, result.Stats.Disqualified)
	assert.Equal(t, 2, result.Stats.Output)
	require.Len(t, result.Leads, 2)

	var korteks, makina *model.Lead
	for i := range result.Leads {
		switch result.Leads[i].Company {
		case "Korteks Mensucat A.Ş.":
			korteks = &result.Leads[i]
		case "Anadolu Makina Trading Co":
			makina = &result.Leads[i]
		}
	}
	require.NotNil(t, korteks, "highest trust duplicate is kept")
	require.NotNil(t, makina)

	// merged in from the web_scrape duplicate
	assert.Equal(t, []string{"info@korteks.com.tr"}, korteks.Emails)
	assert.Equal(t, model.QualityA, korteks.EntityQuality)
	assert.Equal(t, model.RoleCustomer, korteks.Role)
	assert.Equal(t, model.GradeC, korteks.Grade)
	assert.False(t, korteks.Disqualified)

	// parts vocabulary downgrades at the gate, then disqualifies at scoring
	assert.True(t, makina.PartsSupplier)
	assert.Equal(t, model.QualityC, makina.EntityQuality)
	assert.Equal(t, model.GradeDisqualified, makina.Grade)
	assert.True(t, makina.Disqualified)

	require.Len(t, result.Audit, 1)
	assert.Equal(t, "Korteks Mensucat A.Ş.", result.Audit[0].KeptCompany)
	assert.Equal(t, "Korteks", result.Audit[0].MergedCompany)
	assert.Equal(t, "same_domain:korteks.com.tr", result.Audit[0].Reason)
}

func TestRunPersists(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	p, err := New(testConfig(), st)
	require.NoError(t, err)

	result, err := p.Run(ctx, testLeads(), "leads.csv")
	require.NoError(t, err)
	require.NotNil(t, result.Run)

	run, err := st.GetRun(ctx, result.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Stats)
	assert.Equal(t, 4, run.Stats.Input)
	assert.Equal(t, 2, run.Stats.Output)

	leads, err := st.ListLeads(ctx, store.LeadFilter{RunID: result.Run.ID})
	require.NoError(t, err)
	assert.Len(t, leads, 2)

	audit, err := st.ListAudit(ctx, result.Run.ID)
	require.NoError(t, err)
	assert.Len(t, audit, 1)
}

func TestNewUnknownMatcher(t *testing.T) {
	cfg := testConfig()
	cfg.Dedupe.Matcher = "soundex"
	_, err := New(cfg, nil)
	assert.Error(t, err)
}
