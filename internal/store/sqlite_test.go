package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texparts/leads-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "leads.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusScoring))

	stats := &model.RunStats{Input: 10, Output: 7, Grades: map[string]int{"A": 2}}
	require.NoError(t, s.CompleteRun(ctx, run.ID, stats))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "leads.csv", got.Source)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Stats)
	assert.Equal(t, 10, got.Stats.Input)
	assert.Equal(t, 2, got.Stats.Grades["A"])
}

func TestSQLiteRunNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.UpdateRunStatus(ctx, "missing", model.RunStatusFailed)
	assert.Error(t, err)

	_, err = s.GetRun(ctx, "missing")
	assert.Error(t, err)
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, "a.csv")
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, "b.csv")
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, first.ID, &model.RunStats{}))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, first.ID, complete[0].ID)
}

func TestSQLiteLeadsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "leads.csv")
	require.NoError(t, err)

	leads := []model.Lead{
		{Company: "Korteks Mensucat A.Ş.", Country: "turkey", Grade: "A", Role: model.RoleCustomer, Score: 92, EntityQuality: "A", Emails: []string{"info@korteks.com.tr"}},
		{Company: "Mavi Boyahane", Country: "turkey", Grade: "C", Role: model.RoleCustomer, Score: 55},
		{Company: "Delta Têxtil", Country: "brazil", Grade: "B", Role: model.RoleCustomer, Score: 74},
	}
	require.NoError(t, s.SaveLeads(ctx, run.ID, leads))

	all, err := s.ListLeads(ctx, LeadFilter{RunID: run.ID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Korteks Mensucat A.Ş.", all[0].Company, "ordered by score desc")
	assert.Equal(t, []string{"info@korteks.com.tr"}, all[0].Emails)

	graded, err := s.ListLeads(ctx, LeadFilter{RunID: run.ID, Grade: "B"})
	require.NoError(t, err)
	require.Len(t, graded, 1)
	assert.Equal(t, "Delta Têxtil", graded[0].Company)

	hot, err := s.ListLeads(ctx, LeadFilter{RunID: run.ID, MinScore: 70})
	require.NoError(t, err)
	assert.Len(t, hot, 2)

	br, err := s.ListLeads(ctx, LeadFilter{RunID: run.ID, Country: "brazil"})
	require.NoError(t, err)
	assert.Len(t, br, 1)
}

func TestSQLiteAuditRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "leads.csv")
	require.NoError(t, err)

	entries := []model.AuditEntry{
		{KeptCompany: "Korteks Mensucat A.Ş.", MergedCompany: "Korteks", Reason: "same_domain:korteks.com.tr"},
		{KeptCompany: "Korteks Mensucat A.Ş.", MergedCompany: "Korteks Mensucat", Reason: "name_similarity"},
	}
	require.NoError(t, s.SaveAudit(ctx, run.ID, entries))

	got, err := s.ListAudit(ctx, run.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, entries, got)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	assert.Error(t, err)
}
