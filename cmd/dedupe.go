package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/texparts/leads-cli/internal/dedupe"
	"github.com/texparts/leads-cli/internal/ingest"
	"github.com/texparts/leads-cli/internal/model"
	"github.com/texparts/leads-cli/internal/pipeline"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <input-file>",
	Short: "Merge duplicate leads and print the audit trail",
	Long:  "Runs only the merge engine over a staged batch. Nothing is persisted; use this to inspect which records would collapse before a full pipeline run.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := ingest.ReadFile(args[0])
		if err != nil {
			return err
		}

		matcher, err := pipeline.MatcherFor(cfg.Dedupe.Matcher)
		if err != nil {
			return err
		}

		d := dedupe.New(cfg.Dedupe.SimilarityThreshold, matcher)
		merged, audit := d.Dedupe(leads)

		fmt.Printf("%d leads in, %d out, %d merged\n", len(leads), len(merged), len(audit))
		if len(audit) > 0 {
			formatAudit(os.Stdout, audit)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
}

func formatAudit(out io.Writer, audit []model.AuditEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEPT\tMERGED\tREASON")
	_, _ = fmt.Fprintln(w, "----\t------\t------")
	for _, a := range audit {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.KeptCompany, a.MergedCompany, a.Reason)
	}
	_ = w.Flush()
}
