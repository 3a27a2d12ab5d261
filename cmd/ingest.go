package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/quotes-cli/internal/pipeline"
	"github.com/sells-group/quotes-cli/internal/snapshot"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Scrape, write the snapshot, and load it into MongoDB",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := snapshot.NewWriter(snapshotPaths(), snapshot.Format(cfg.Snapshot.Format))

		if _, err := pipeline.Ingest(cmd.Context(), newAssembler(), w, loadSnapshot); err != nil {
			return eris.Wrap(err, "ingest")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
