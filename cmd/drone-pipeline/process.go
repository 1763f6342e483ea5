package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cct-datascience/drone-pipeline/internal/betydb"
	"github.com/cct-datascience/drone-pipeline/internal/config"
	"github.com/cct-datascience/drone-pipeline/internal/extractor"
	"github.com/cct-datascience/drone-pipeline/internal/output"
	"github.com/cct-datascience/drone-pipeline/internal/process"
	"github.com/cct-datascience/drone-pipeline/internal/results"
	"github.com/cct-datascience/drone-pipeline/internal/secrets"
	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process [folder|filename...]",
	Short: "Run a full plot-level extraction over image files",
	Long: `Process runs the extractor's algorithm over plot imagery and writes the
resulting trait row to a CSV file alongside the imagery, updates the sidecar
metadata, uploads the row to BETYdb when configured, and records the run in
the local history. Germplasm, experiment, and timestamp identify the plot
survey and are required.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("file", config.DefaultFile, "extractor configuration file")
	processCmd.Flags().String("germplasm", "", "germplasm (species) name for the plot")
	processCmd.Flags().String("experiment", "", "experiment name; becomes part of the CSV filename")
	processCmd.Flags().String("timestamp", "", "ISO-8601 capture timestamp of the imagery")
	processCmd.Flags().String("plot", "", "plot name (default: derived from dataset names in metadata)")
	processCmd.Flags().String("algorithm", "", "registered algorithm to run (default: the extractor's sensor name, falling back to greenness)")
	processCmd.Flags().String("include", "", "glob narrowing which image files are processed")
	processCmd.Flags().String("data-dir", "data", "base directory for the run-history index")
	processCmd.Flags().String("betydb-url", "", "BETYdb API base URL")
	processCmd.Flags().String("betydb-key", "", "BETYdb API key (default: .secrets/"+secrets.BETYdbKey+")")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	germplasm, _ := cmd.Flags().GetString("germplasm")
	experiment, _ := cmd.Flags().GetString("experiment")
	timestamp, _ := cmd.Flags().GetString("timestamp")
	plot, _ := cmd.Flags().GetString("plot")

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

	run := process.Run{
		Germplasm:  germplasm,
		Experiment: experiment,
		Timestamp:  timestamp,
		PlotName:   plot,
		Paths:      args,
	}
	result, err := proc.Execute(cmd.Context(), run, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("processed plot with %s: %v\n", cfg.SensorName(), result.Values)
	if result.CSVPath != "" {
		fmt.Println("  ", result.CSVPath)
	}
	if len(result.TraitIDs) > 0 {
		fmt.Printf("   BETYdb trait IDs: %v\n", result.TraitIDs)
	}
	return nil
}

// processSettings assembles the run settings from flags, viper
// configuration, and loaded secrets. Flags win over the config file; the
// BETYdb key additionally falls back to .secrets/betydb-api-key.
func processSettings(cmd *cobra.Command) types.ProcessConfig {
	include, _ := cmd.Flags().GetString("include")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	betydbURL, _ := cmd.Flags().GetString("betydb-url")
	betydbKey, _ := cmd.Flags().GetString("betydb-key")

	if betydbURL == "" {
		betydbURL = viper.GetString("betydb.url")
	}
	if betydbKey == "" {
		betydbKey = viper.GetString("betydb.api_key")
	}
	if dataDir == "" || dataDir == "data" {
		if v := viper.GetString("results.data_dir"); v != "" {
			dataDir = v
		}
	}
	if include == "" {
		include = viper.GetString("include")
	}

	settings := types.ProcessConfig{
		BETYdb: types.BETYdbConfig{
			URL:        betydbURL,
			APIKey:     secretDefault(secrets.BETYdbKey, betydbKey),
			MaxRetries: viper.GetInt("betydb.max_retries"),
		},
		Results: types.ResultsConfig{
			DataDir:    dataDir,
			MaxResults: viper.GetInt("results.max_results"),
		},
		Include: include,
	}
	settings.BETYdb.Timeout = 30 * time.Second
	settings.BETYdb.UserAgent = "drone-pipeline/" + version
	return settings
}

// buildProcessor wires the processor from flags, viper configuration, and
// loaded secrets. The returned store is nil when the run history could not
// be opened; processing still works, the run just is not recorded.
func buildProcessor(cmd *cobra.Command, cfg *types.ExtractorConfig) (*process.Processor, *results.Store, error) {
	algName, _ := cmd.Flags().GetString("algorithm")

	if algName == "" {
		algName = cfg.SensorName()
	}
	alg, err := extractor.Lookup(algName)
	if err != nil {
		alg, err = extractor.Lookup("greenness")
		if err != nil {
			return nil, nil, err
		}
		fmt.Fprintf(os.Stderr, "no %q algorithm registered, using greenness\n", algName)
	}

	settings := processSettings(cmd)

	var uploader process.Uploader
	if settings.BETYdb.URL != "" && !cfg.NeverWriteBETYdb {
		client, err := betydb.NewClient(settings.BETYdb)
		if err != nil {
			return nil, nil, err
		}
		uploader = client
	}

	var recorder process.Recorder
	store, err := results.NewStore(settings.Results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run history unavailable: %v\n", err)
		store = nil
	} else {
		recorder = store
	}

	proc := &process.Processor{
		Config:    cfg,
		Algorithm: alg,
		CSV:       output.NewWriter(),
		Uploader:  uploader,
		Recorder:  recorder,
		Include:   settings.Include,
	}
	return proc, store, nil
}
