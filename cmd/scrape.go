package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/quotes-cli/internal/pipeline"
	"github.com/sells-group/quotes-cli/internal/snapshot"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape quotes and authors into snapshot files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := snapshot.NewWriter(snapshotPaths(), snapshot.Format(cfg.Snapshot.Format))

		report, err := pipeline.Scrape(cmd.Context(), newAssembler(), w)
		if err != nil {
			return eris.Wrap(err, "scrape")
		}

		zap.L().Info("scrape complete",
			zap.Int("quotes", report.Quotes),
			zap.Int("authors", report.Authors),
			zap.Int("unknown_authors", report.UnknownAuthors),
			zap.String("dir", cfg.Snapshot.Dir),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
