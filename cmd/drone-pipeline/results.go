package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cct-datascience/drone-pipeline/internal/results"
	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query the local run history",
	Long: `Results lists values recorded by earlier processing runs, newest first.
Filters narrow by plot, experiment, or extractor; --json switches the output
to one JSON document for scripting.`,
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().String("plot", "", "only show runs for this plot")
	resultsCmd.Flags().String("experiment", "", "only show runs for this experiment")
	resultsCmd.Flags().String("extractor", "", "only show runs for this extractor")
	resultsCmd.Flags().Int("limit", 0, "maximum number of runs to show (default 20)")
	resultsCmd.Flags().Bool("json", false, "print results as JSON")
	resultsCmd.Flags().String("data-dir", "data", "base directory for the run-history index")

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	plot, _ := cmd.Flags().GetString("plot")
	experiment, _ := cmd.Flags().GetString("experiment")
	extractorName, _ := cmd.Flags().GetString("extractor")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	if dataDir == "data" {
		if v := viper.GetString("results.data_dir"); v != "" {
			dataDir = v
		}
	}

	store, err := results.NewStore(types.ResultsConfig{
		DataDir:    dataDir,
		MaxResults: viper.GetInt("results.max_results"),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Query(results.Filter{
		Plot:       plot,
		Experiment: experiment,
		Extractor:  extractorName,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "    ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tEXTRACTOR\tPLOT\tEXPERIMENT\tFIELD\tVALUE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.Format(time.RFC3339), rec.Extractor, rec.Plot,
			rec.Experiment, rec.Field, rec.Value)
	}
	return w.Flush()
}
