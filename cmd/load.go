package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the snapshot files into MongoDB",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := loadSnapshot(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "load")
		}

		zap.L().Info("load complete",
			zap.String("mode", string(res.Mode)),
			zap.Int("quotes", res.Quotes),
			zap.Int("authors", res.Authors),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
