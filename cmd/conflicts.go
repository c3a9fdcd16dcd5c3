package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ssot-cli/internal/export"
	"github.com/sells-group/ssot-cli/internal/store"
)

var (
	conflictsBatch  string
	conflictsSlug   string
	conflictsField  string
	conflictsLimit  int
	conflictsFormat string
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Report field conflicts from a stored batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		batchID := conflictsBatch
		if batchID == "" {
			batchID, err = s.LatestBatchID(ctx)
			if err != nil {
				return err
			}
		}

		conflicts, err := s.ListConflicts(ctx, store.ConflictFilter{
			BatchID: batchID,
			Slug:    conflictsSlug,
			Field:   conflictsField,
			Limit:   conflictsLimit,
		})
		if err != nil {
			return err
		}

		switch conflictsFormat {
		case "yaml":
			return export.WriteConflictYAML(os.Stdout, batchID, conflicts)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(conflicts), "encode conflicts")
		default:
			return eris.Errorf("unknown format %q (want yaml or json)", conflictsFormat)
		}
	},
}

func init() {
	conflictsCmd.Flags().StringVar(&conflictsBatch, "batch", "", "batch id (default latest)")
	conflictsCmd.Flags().StringVar(&conflictsSlug, "slug", "", "filter by organization slug")
	conflictsCmd.Flags().StringVar(&conflictsField, "field", "", "filter by field name")
	conflictsCmd.Flags().IntVar(&conflictsLimit, "limit", 0, "max conflicts to report (0 = all)")
	conflictsCmd.Flags().StringVar(&conflictsFormat, "format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(conflictsCmd)
}
