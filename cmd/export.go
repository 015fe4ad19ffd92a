package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/texparts/leads-cli/internal/export"
	"github.com/texparts/leads-cli/internal/model"
	"github.com/texparts/leads-cli/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <output-file>",
	Short: "Export stored leads as a sales-ready CSV or XLSX",
	Long:  "Writes stored leads ordered hottest-first, with the pitch rationale and sales angle columns outreach works from. The XLSX form adds a merge audit sheet.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		grade, _ := cmd.Flags().GetString("grade")
		minScore, _ := cmd.Flags().GetFloat64("min-score")
		limit, _ := cmd.Flags().GetInt("limit")

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			RunID:    runID,
			Grade:    grade,
			MinScore: minScore,
			Limit:    limit,
		})
		if err != nil {
			return eris.Wrap(err, "export: list leads")
		}

		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".csv":
			return export.WriteCSV(leads, args[0])
		case ".xlsx":
			var audit []model.AuditEntry
			if runID != "" {
				audit, err = st.ListAudit(ctx, runID)
				if err != nil {
					return eris.Wrap(err, "export: list audit")
				}
			}
			return export.WriteXLSX(leads, audit, args[0])
		default:
			return eris.Errorf("export: unsupported output type %q", filepath.Ext(args[0]))
		}
	},
}

func init() {
	exportCmd.Flags().String("run", "", "restrict to leads from one run")
	exportCmd.Flags().String("grade", "", "only leads with this grade")
	exportCmd.Flags().Float64("min-score", 0, "minimum score")
	exportCmd.Flags().Int("limit", 0, "max leads to export (0 = all)")
	rootCmd.AddCommand(exportCmd)
}
