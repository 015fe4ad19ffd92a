// Package pipeline orchestrates the full lead flow: merge duplicates, gate
// entity quality, classify roles, score, persist.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/texparts/leads-cli/internal/config"
	"github.com/texparts/leads-cli/internal/dedupe"
	"github.com/texparts/leads-cli/internal/gate"
	"github.com/texparts/leads-cli/internal/model"
	"github.com/texparts/leads-cli/internal/role"
	"github.com/texparts/leads-cli/internal/score"
	"github.com/texparts/leads-cli/internal/similarity"
	"github.com/texparts/leads-cli/internal/store"
)

// Pipeline wires the processing stages together.
type Pipeline struct {
	cfg        *config.Config
	store      store.Store
	deduper    *dedupe.Deduper
	gate       *gate.Gate
	classifier role.Classifier
	scorer     *score.Scorer
}

// Result is the outcome of one pipeline run.
type Result struct {
	Run   *model.Run
	Leads []model.Lead
	Audit []model.AuditEntry
	Stats model.RunStats
}

// MatcherFor returns the fuzzy name matcher for a configured name.
func MatcherFor(name string) (similarity.Matcher, error) {
	switch name {
	case "levenshtein":
		return similarity.Levenshtein{}, nil
	case "sequence", "":
		return similarity.SequenceMatcher{}, nil
	}
	return nil, eris.Errorf("pipeline: unknown matcher %q", name)
}

// New creates a Pipeline from configuration. The store may be nil for dry
// runs; results are then not persisted.
func New(cfg *config.Config, st store.Store) (*Pipeline, error) {
	matcher, err := MatcherFor(cfg.Dedupe.Matcher)
	if err != nil {
		return nil, err
	}

	vocab, err := config.LoadVocab(cfg.Vocab.Path)
	if err != nil {
		return nil, err
	}

	scoreCfg := score.Config{
		GradeAMin:              cfg.Scoring.GradeAMin,
		GradeBMin:              cfg.Scoring.GradeBMin,
		GradeCMin:              cfg.Scoring.GradeCMin,
		BonusTier1:             cfg.Scoring.BonusTier1,
		BonusTier2:             cfg.Scoring.BonusTier2,
		BonusCert:              cfg.Scoring.BonusCert,
		BonusGolden:            cfg.Scoring.BonusGolden,
		ExtraFinishingKeywords: vocab.FinishingKeywords,
		ExtraNegativePhrases:   vocab.NegativePhrases,
	}

	return &Pipeline{
		cfg:     cfg,
		store:   st,
		deduper: dedupe.New(cfg.Dedupe.SimilarityThreshold, matcher),
		gate:    gate.New(),
		scorer:  score.New(scoreCfg),
	}, nil
}

// Run executes dedupe, gate, role, and score over an input batch and
// persists the survivors.
func (p *Pipeline) Run(ctx context.Context, leads []model.Lead, source string) (*Result, error) {
	log := zap.L().With(zap.String("source", source), zap.Int("input", len(leads)))
	log.Info("pipeline: starting run")
	start := time.Now()

	result := &Result{Stats: model.RunStats{Input: len(leads)}}

	if p.store != nil {
		run, err := p.store.CreateRun(ctx, source)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		result.Run = run
	}

	setStatus := func(status model.RunStatus) {
		if p.store == nil || result.Run == nil {
			return
		}
		if err := p.store.UpdateRunStatus(ctx, result.Run.ID, status); err != nil {
			log.Warn("pipeline: failed to update status", zap.Error(err))
		}
	}

	fail := func(err error) (*Result, error) {
		setStatus(model.RunStatusFailed)
		return nil, err
	}

	// Stage 1: merge duplicates.
	setStatus(model.RunStatusDeduping)
	merged, audit := p.deduper.Dedupe(leads)
	result.Audit = audit
	result.Stats.Merged = len(leads) - len(merged)

	// Stages 2-4: gate, role, score. Leads are independent after the merge,
	// so they fan out across a bounded worker group.
	setStatus(model.RunStatusGating)
	verdicts := make([]model.QualityVerdict, len(merged))

	workers := p.cfg.Batch.MaxConcurrentLeads
	if workers <= 0 {
		workers = 1
	}
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range merged {
		g.Go(func() error {
			lead := &merged[i]
			verdicts[i] = p.gate.Grade(lead)
			if verdicts[i].Rejected() {
				return nil
			}
			lead.EntityQuality = verdicts[i].Grade
			lead.GradeReason = verdicts[i].Reason
			p.classifier.Classify(lead)
			p.scorer.Score(lead)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail(eris.Wrap(err, "pipeline: process leads"))
	}
	setStatus(model.RunStatusScoring)

	result.Stats.Grades = map[string]int{}
	result.Stats.Roles = map[string]int{}
	for i := range merged {
		if verdicts[i].Rejected() {
			result.Stats.Rejected++
			continue
		}
		lead := merged[i]
		if lead.Disqualified {
			result.Stats.Disqualified++
		}
		result.Stats.Grades[lead.Grade]++
		result.Stats.Roles[lead.Role]++
		result.Leads = append(result.Leads, lead)
	}
	result.Stats.Output = len(result.Leads)
	result.Stats.DurationMS = time.Since(start).Milliseconds()

	if p.store != nil && result.Run != nil {
		if err := p.store.SaveLeads(ctx, result.Run.ID, result.Leads); err != nil {
			return fail(eris.Wrap(err, "pipeline: save leads"))
		}
		if err := p.store.SaveAudit(ctx, result.Run.ID, result.Audit); err != nil {
			return fail(eris.Wrap(err, "pipeline: save audit"))
		}
		if err := p.store.CompleteRun(ctx, result.Run.ID, &result.Stats); err != nil {
			return fail(eris.Wrap(err, "pipeline: complete run"))
		}
	}

	log.Info("pipeline: run complete",
		zap.Int("merged", result.Stats.Merged),
		zap.Int("rejected", result.Stats.Rejected),
		zap.Int("disqualified", result.Stats.Disqualified),
		zap.Int("output", result.Stats.Output),
		zap.Int64("duration_ms", result.Stats.DurationMS),
	)
	return result, nil
}
