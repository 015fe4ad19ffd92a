package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/texparts/leads-cli/internal/export"
	"github.com/texparts/leads-cli/internal/ingest"
	"github.com/texparts/leads-cli/internal/model"
	"github.com/texparts/leads-cli/internal/pipeline"
	"github.com/texparts/leads-cli/internal/store"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <input-file>",
	Short: "Run the full lead pipeline on a staged batch",
	Long:  "Reads a CSV or XLSX batch, merges duplicates, gates entity quality, classifies roles, scores purchase likelihood, and persists the results.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		leads, err := ingest.ReadFile(args[0])
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads in input file.")
			return nil
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		var st store.Store
		if !dryRun {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		p, err := pipeline.New(cfg, st)
		if err != nil {
			return err
		}

		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			source = filepath.Base(args[0])
		}

		result, err := p.Run(ctx, leads, source)
		if err != nil {
			return eris.Wrap(err, "pipeline")
		}

		formatPipelineStats(os.Stdout, result)

		if out, _ := cmd.Flags().GetString("csv"); out != "" {
			if err := export.WriteCSV(result.Leads, out); err != nil {
				return err
			}
		}
		if out, _ := cmd.Flags().GetString("xlsx"); out != "" {
			if err := export.WriteXLSX(result.Leads, result.Audit, out); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	pipelineCmd.Flags().String("source", "", "batch label (default: input file name)")
	pipelineCmd.Flags().Bool("dry-run", false, "process without persisting")
	pipelineCmd.Flags().String("csv", "", "also write a sales CSV to this path")
	pipelineCmd.Flags().String("xlsx", "", "also write a sales XLSX to this path")
	rootCmd.AddCommand(pipelineCmd)
}

func formatPipelineStats(out io.Writer, result *pipeline.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if result.Run != nil {
		_, _ = fmt.Fprintf(w, "Run:\t%s\n", result.Run.ID)
	}
	_, _ = fmt.Fprintf(w, "Input leads:\t%d\n", result.Stats.Input)
	_, _ = fmt.Fprintf(w, "Merged duplicates:\t%d\n", result.Stats.Merged)
	_, _ = fmt.Fprintf(w, "Gate rejects:\t%d\n", result.Stats.Rejected)
	_, _ = fmt.Fprintf(w, "Disqualified:\t%d\n", result.Stats.Disqualified)
	_, _ = fmt.Fprintf(w, "Output leads:\t%d\n", result.Stats.Output)
	for _, grade := range sortedKeys(result.Stats.Grades) {
		_, _ = fmt.Fprintf(w, "  Grade %s:\t%d\n", grade, result.Stats.Grades[grade])
	}
	for _, role := range sortedKeys(result.Stats.Roles) {
		_, _ = fmt.Fprintf(w, "  Role %s:\t%d\n", role, result.Stats.Roles[role])
	}
	_, _ = fmt.Fprintf(w, "Duration:\t%dms\n", result.Stats.DurationMS)
	_ = w.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// leadGradeCounts aggregates grade and role distributions for stored leads.
func leadGradeCounts(leads []model.Lead) (grades, roles map[string]int) {
	grades = map[string]int{}
	roles = map[string]int{}
	for i := range leads {
		grades[leads[i].Grade]++
		roles[leads[i].Role]++
	}
	return grades, roles
}
