package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/texparts/leads-cli/internal/gate"
	"github.com/texparts/leads-cli/internal/ingest"
)

var gateCmd = &cobra.Command{
	Use:   "gate <input-file>",
	Short: "Grade entity quality for a staged batch",
	Long:  "Runs only the quality gate and prints the grade breakdown and rejection reasons. Nothing is persisted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := ingest.ReadFile(args[0])
		if err != nil {
			return err
		}

		g := gate.New()
		kept, stats := g.Apply(leads)

		formatGateStats(os.Stdout, stats)

		if verbose, _ := cmd.Flags().GetBool("rejects"); verbose {
			fmt.Println()
			for i := range leads {
				v := g.Grade(&leads[i])
				if !v.Rejected() {
					continue
				}
				fmt.Printf("  REJECT %q: %s\n", leads[i].Company, v.Reason)
			}
		}

		fmt.Printf("\n%d of %d leads pass the gate\n", len(kept), len(leads))
		return nil
	},
}

func init() {
	gateCmd.Flags().Bool("rejects", false, "print every rejected lead with its reason")
	rootCmd.AddCommand(gateCmd)
}

func formatGateStats(out io.Writer, stats gate.Stats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Graded:\t%d\n", stats.Graded)
	_, _ = fmt.Fprintf(w, "Rejected:\t%d\n", stats.Rejected)
	for _, grade := range sortedKeys(stats.Grades) {
		_, _ = fmt.Fprintf(w, "  Quality %s:\t%d\n", grade, stats.Grades[grade])
	}
	for _, reason := range sortedKeys(stats.Reasons) {
		_, _ = fmt.Fprintf(w, "  Cut (%s):\t%d\n", reason, stats.Reasons[reason])
	}
	_ = w.Flush()
}
