package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/texparts/leads-cli/internal/model"
	"github.com/texparts/leads-cli/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show grade and role distribution of stored leads",
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

		leads, err := st.ListLeads(ctx, store.LeadFilter{RunID: runID, Limit: 100000})
		if err != nil {
			return eris.Wrap(err, "stats: list leads")
		}

		runs, err := st.ListRuns(ctx, store.RunFilter{Limit: 20})
		if err != nil {
			return eris.Wrap(err, "stats: list runs")
		}

		formatLeadStats(os.Stdout, leads)
		if runID == "" && len(runs) > 0 {
			fmt.Println()
			formatRunsList(os.Stdout, runs)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("run", "", "restrict to leads from one run")
	rootCmd.AddCommand(statsCmd)
}

func formatLeadStats(out io.Writer, leads []model.Lead) {
	grades, roles := leadGradeCounts(leads)

	var scoreSum float64
	golden := 0
	for i := range leads {
		scoreSum += leads[i].Score
		if leads[i].Golden {
			golden++
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Leads:\t%d\n", len(leads))
	for _, grade := range sortedKeys(grades) {
		_, _ = fmt.Fprintf(w, "  Grade %s:\t%d\n", grade, grades[grade])
	}
	for _, role := range sortedKeys(roles) {
		_, _ = fmt.Fprintf(w, "  Role %s:\t%d\n", role, roles[role])
	}
	if len(leads) > 0 {
		_, _ = fmt.Fprintf(w, "Avg score:\t%.1f\n", scoreSum/float64(len(leads)))
	}
	_, _ = fmt.Fprintf(w, "Golden leads:\t%d\n", golden)
	_ = w.Flush()
}

func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSOURCE\tSTATUS\tIN\tOUT\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t------\t------\t--\t---\t-------")
	for _, r := range runs {
		in, out := "", ""
		if r.Stats != nil {
			in = fmt.Sprintf("%d", r.Stats.Input)
			out = fmt.Sprintf("%d", r.Stats.Output)
		}
		source := r.Source
		if len(source) > 30 {
			source = source[:27] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(r.ID),
			source,
			r.Status,
			in,
			out,
			r.CreatedAt.Format(time.DateTime),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
