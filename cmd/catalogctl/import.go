package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sushihentaime/toolshelf/internal/common"
	"github.com/sushihentaime/toolshelf/internal/importer"
	"github.com/sushihentaime/toolshelf/internal/toolservice"
)

func newImportCmd(c *cli) *cobra.Command {
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   "import <tools.json>",
		Short: "Import legacy tool records from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			db, err := common.OpenDB(c.cfg)
			if err != nil {
				return fmt.Errorf("connect to the database: %w", err)
			}
			defer common.CloseDB(db)

			report, err := importer.New(toolservice.NewToolModel(db), c.logger).Run(cmd.Context(), f, opts)
			if err != nil {
				return err
			}

			c.logger.Info("import finished",
				slog.Int("total", report.Total),
				slog.Int("inserted", report.Inserted),
				slog.Any("failed_batches", report.FailedBatches))

			if len(report.FailedBatches) > 0 {
				return fmt.Errorf("%d of %d tools were not imported", report.Total-report.Inserted, report.Total)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "delete every existing tool first")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", importer.DefaultBatchSize, "tools per transaction")

	return cmd
}
