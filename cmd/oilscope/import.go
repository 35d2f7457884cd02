package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oilscope/oilscope/internal/config"
	"github.com/oilscope/oilscope/internal/importer"
	"github.com/oilscope/oilscope/internal/store"
)

func newImportCommand(cfg config.Config) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "import [file.csv | dir]",
		Short: "Import tank gauge CSV exports into the local cache.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cache, err := store.Open(config.CachePath())
			if err != nil {
				return err
			}
			defer cache.Close()

			imp := importer.New(cache, cfg.LocationID, cfg.TankCapacityGallons)

			if watch {
				dir := cfg.ImportDir
				if len(args) == 1 {
					dir = args[0]
				}
				if dir == "" {
					return errors.New("no drop directory: pass one or set import_dir in the config")
				}

				ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
				defer cancel()

				log.SetOutput(os.Stderr)
				fmt.Printf("watching %s for CSV drops (ctrl-c to stop)\n", dir)
				if err := imp.Watch(ctx, dir); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}

			if len(args) != 1 {
				return errors.New("pass a CSV file to import, or --watch with a directory")
			}

			summary, err := imp.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%d rows: %d new, %d duplicates skipped\n",
				summary.Total, summary.New, summary.SkippedDuplicates)
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "watch a directory and import CSVs as they appear")
	return cmd
}
