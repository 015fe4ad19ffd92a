package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.InDelta(t, 0.92, cfg.Dedupe.SimilarityThreshold, 0.001)
	assert.InDelta(t, 85, cfg.Scoring.GradeAMin, 0.001)
	assert.InDelta(t, 70, cfg.Scoring.GradeBMin, 0.001)
	assert.InDelta(t, 50, cfg.Scoring.GradeCMin, 0.001)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrentLeads)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LEADS_DEDUPE_SIMILARITY_THRESHOLD", "0.85")
	t.Setenv("LEADS_STORE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.85, cfg.Dedupe.SimilarityThreshold, 0.001)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoadVocab(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	contents := []byte("finishing_keywords:\n  - veredelung\nnegative_phrases:\n  - makina ticaret\n")
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	vocab, err := LoadVocab(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"veredelung"}, vocab.FinishingKeywords)
	assert.Equal(t, []string{"makina ticaret"}, vocab.NegativePhrases)
}

func TestLoadVocabEmptyPath(t *testing.T) {
	vocab, err := LoadVocab("")
	require.NoError(t, err)
	assert.Empty(t, vocab.FinishingKeywords)
	assert.Empty(t, vocab.NegativePhrases)
}

func TestLoadVocabMissingFile(t *testing.T) {
	_, err := LoadVocab(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
