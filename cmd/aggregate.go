package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ssot-cli/internal/aggregate"
	"github.com/sells-group/ssot-cli/internal/export"
	"github.com/sells-group/ssot-cli/internal/fetcher"
	"github.com/sells-group/ssot-cli/internal/intent"
	"github.com/sells-group/ssot-cli/internal/model"
	"github.com/sells-group/ssot-cli/internal/scoring"
	"github.com/sells-group/ssot-cli/internal/validation"
)

var (
	aggregateOut     string
	aggregateDataset string
	aggregateNoStore bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <source-file>...",
	Short: "Canonicalize source spreadsheets into one record per organization",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var records []model.RawRecord
		var slugs []string
		for _, path := range args {
			recs, rowSlugs, err := loadSource(path, aggregateDataset)
			if err != nil {
				return err
			}
			records = append(records, recs...)
			slugs = append(slugs, rowSlugs...)
		}

		groups := fetcher.GroupRecords(records, slugs)
		zap.L().Info("aggregate: sources loaded",
			zap.Int("records", len(records)),
			zap.Int("groups", len(groups)),
		)

		agg, err := newAggregator()
		if err != nil {
			return err
		}

		result, err := agg.AggregateBatch(ctx, groups)
		if err != nil {
			return err
		}

		if !aggregateNoStore {
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveBatch(ctx, result); err != nil {
				return err
			}
		}

		out := aggregateOut
		if out == "" {
			out = filepath.Join(cfg.Export.Dir, "canonical_"+result.BatchID+".xlsx")
		}
		if err := export.WriteCanonicalXLSX(out, cfg.Export.SheetName, result.Canonical); err != nil {
			return err
		}

		zap.L().Info("aggregate: done",
			zap.String("batch_id", result.BatchID),
			zap.String("output", out),
			zap.Int("rows", len(result.Canonical)),
			zap.Int("conflicts", len(result.Conflicts)),
			zap.Any("source_counts", result.SourceCounts),
		)
		return nil
	},
}

func init() {
	aggregateCmd.Flags().StringVarP(&aggregateOut, "out", "o", "", "output XLSX path (default canonical_<batch>.xlsx in export dir)")
	aggregateCmd.Flags().StringVar(&aggregateDataset, "dataset", "", "source dataset name for files without a source column")
	aggregateCmd.Flags().BoolVar(&aggregateNoStore, "no-store", false, "skip persisting the batch to the store")
	rootCmd.AddCommand(aggregateCmd)
}

// newAggregator wires the engine with its collaborators from config.
func newAggregator() (*aggregate.Aggregator, error) {
	validator := validation.NewCache(validation.NewHeuristic())
	scorer := scoring.NewWeightedScorer().WithSteepness(cfg.Scoring.Steepness)

	opts := []aggregate.Option{
		aggregate.WithCountryCode(cfg.Validation.CountryCode),
		aggregate.WithWorkers(cfg.Aggregation.Workers),
	}

	if cfg.Intent.Path != "" {
		summaries, err := intent.LoadFile(cfg.Intent.Path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, aggregate.WithIntentResolver(intent.NewMapResolver(summaries)))
		zap.L().Info("aggregate: intent summaries loaded", zap.Int("count", len(summaries)))
	}

	return aggregate.New(validator, scorer, opts...), nil
}

// loadSource reads one spreadsheet into raw records, inferring the format
// from the extension.
func loadSource(path, defaultDataset string) ([]model.RawRecord, []string, error) {
	if defaultDataset == "" {
		defaultDataset = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var header []string
	var rows [][]string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		var err error
		header, rows, err = fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
		if err != nil {
			return nil, nil, err
		}
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "open %s", path)
		}
		defer f.Close()
		header, rows, err = fetcher.ReadCSV(f, fetcher.CSVOptions{TrimSpace: true})
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, eris.Errorf("unsupported source format %q", filepath.Ext(path))
	}

	return fetcher.MapRows(header, rows, defaultDataset)
}
