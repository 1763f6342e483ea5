package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cct-datascience/drone-pipeline/internal/config"
	"github.com/cct-datascience/drone-pipeline/internal/process"
	"github.com/cct-datascience/drone-pipeline/internal/traits"
	"github.com/cct-datascience/drone-pipeline/internal/watch"
	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory and process imagery as it arrives",
	Long: `Watch monitors the inbox for newly dropped plot imagery and runs the
full processing pipeline over each file once it has settled. The plot name is
taken from the filename when it follows the "<experiment> - <plot> - by plot"
naming convention; files whose plot and capture time are already in the run
history are skipped. The watch runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("file", config.DefaultFile, "extractor configuration file")
	watchCmd.Flags().String("inbox", "inbox", "directory to watch for imagery")
	watchCmd.Flags().Duration("settle", watch.DefaultSettle, "quiet interval before a file is picked up")
	watchCmd.Flags().String("germplasm", "", "germplasm (species) name for arriving plots")
	watchCmd.Flags().String("experiment", "", "experiment name; becomes part of the CSV filename")
	watchCmd.Flags().String("timestamp", "", "ISO-8601 capture timestamp applied to arriving imagery")
	watchCmd.Flags().String("algorithm", "", "registered algorithm to run (default: the extractor's sensor name, falling back to greenness)")
	watchCmd.Flags().String("include", "", "glob narrowing which image files are picked up")
	watchCmd.Flags().String("data-dir", "data", "base directory for the run-history index")
	watchCmd.Flags().String("betydb-url", "", "BETYdb API base URL")
	watchCmd.Flags().String("betydb-key", "", "BETYdb API key (default: .secrets/betydb-api-key)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	inbox, _ := cmd.Flags().GetString("inbox")
	settle, _ := cmd.Flags().GetDuration("settle")
	germplasm, _ := cmd.Flags().GetString("germplasm")
	experiment, _ := cmd.Flags().GetString("experiment")
	timestamp, _ := cmd.Flags().GetString("timestamp")
	include, _ := cmd.Flags().GetString("include")

	if inbox == "inbox" {
		if v := viper.GetString("watch.inbox_dir"); v != "" {
			inbox = v
		}
	}
	if timestamp == "" {
		timestamp = time.Now().Format("2006-01-02")
	}
	if germplasm == "" || experiment == "" {
		return fmt.Errorf("a germplasm name and experiment name must be specified")
	}

	cfg, err := config.Load(file)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	proc, store, err := buildProcessor(cmd, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	sensor := cfg.SensorName()
	localTime := traits.LocalTime(timestamp)

	handler := func(ctx context.Context, path string) error {
		plot := plotFromFilename(path)
		if store != nil && plot != "" {
			done, err := store.HasRun(sensor, plot, localTime)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: unable to check run history: %v\n", err)
			} else if done {
				fmt.Fprintf(os.Stderr, "already processed %s at %s, skipping %s\n", plot, localTime, path)
				return nil
			}
		}

		run := process.Run{
			Germplasm:  germplasm,
			Experiment: experiment,
			Timestamp:  timestamp,
			PlotName:   plot,
			Paths:      []string{path},
		}
		result, err := proc.Execute(ctx, run, os.Stderr)
		if err != nil {
			return err
		}
		fmt.Printf("%s,%s\n", path, strings.Join(result.Values, ","))
		return nil
	}

	watchCfg := types.WatchConfig{InboxDir: inbox, Settle: settle}
	return watch.Run(cmd.Context(), watchCfg, include, handler, os.Stderr)
}

// plotFromFilename derives the plot name from an image filename that
// follows the "by plot" naming convention. Returns "" when the convention
// does not apply; processing then falls back to sidecar metadata.
func plotFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return traits.PlotName([]string{base})
}
