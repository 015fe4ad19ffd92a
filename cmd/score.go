package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/texparts/leads-cli/internal/score"
	"github.com/texparts/leads-cli/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Re-score stored leads with optional threshold overrides",
	Long:  "Loads leads from the store and re-runs only the scoring engine. Flags override the configured grade thresholds, so sales can preview how a cutoff change shifts the grade distribution. Results are printed, not persisted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runID, _ := cmd.Flags().GetString("run")
		limit, _ := cmd.Flags().GetInt("limit")

		leads, err := st.ListLeads(ctx, store.LeadFilter{RunID: runID, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "score: list leads")
		}
		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No stored leads match.")
			return nil
		}

		scoreCfg := score.Config{
			GradeAMin:   cfg.Scoring.GradeAMin,
			GradeBMin:   cfg.Scoring.GradeBMin,
			GradeCMin:   cfg.Scoring.GradeCMin,
			BonusTier1:  cfg.Scoring.BonusTier1,
			BonusTier2:  cfg.Scoring.BonusTier2,
			BonusCert:   cfg.Scoring.BonusCert,
			BonusGolden: cfg.Scoring.BonusGolden,
		}
		if v, _ := cmd.Flags().GetFloat64("grade-a-min"); v > 0 {
			scoreCfg.GradeAMin = v
		}
		if v, _ := cmd.Flags().GetFloat64("grade-b-min"); v > 0 {
			scoreCfg.GradeBMin = v
		}
		if v, _ := cmd.Flags().GetFloat64("grade-c-min"); v > 0 {
			scoreCfg.GradeCMin = v
		}

		stats := score.New(scoreCfg).Batch(leads)
		formatScoreStats(os.Stdout, stats)
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("run", "", "restrict to leads from one run")
	scoreCmd.Flags().Int("limit", 10000, "max leads to load")
	scoreCmd.Flags().Float64("grade-a-min", 0, "override grade A threshold")
	scoreCmd.Flags().Float64("grade-b-min", 0, "override grade B threshold")
	scoreCmd.Flags().Float64("grade-c-min", 0, "override grade C threshold")
	rootCmd.AddCommand(scoreCmd)
}

func formatScoreStats(out io.Writer, stats score.Stats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Scored:\t%d\n", stats.Scored)
	_, _ = fmt.Fprintf(w, "Disqualified:\t%d\n", stats.Disqualified)
	for _, grade := range sortedKeys(stats.Grades) {
		_, _ = fmt.Fprintf(w, "  Grade %s:\t%d\n", grade, stats.Grades[grade])
	}
	_ = w.Flush()
}
