package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cct-datascience/drone-pipeline/internal/extractor"
	"github.com/cct-datascience/drone-pipeline/internal/imagery"
)

var testCmd = &cobra.Command{
	Use:   "test [folder|filename...]",
	Short: "Run an algorithm over image files and print the results",
	Long: `Test runs the named algorithm over each image file (folders are searched
recursively) and prints one "file,value" line per image. Files that fail to
decode or calculate are reported on stderr and do not stop the run.`,
	RunE: runTest,
}

func init() {
	testCmd.Flags().String("algorithm", "greenness", "registered algorithm to run")
	testCmd.Flags().String("include", "", "glob narrowing which image files are processed")

	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("one or more paths to images need to be specified")
	}

	name, _ := cmd.Flags().GetString("algorithm")
	include, _ := cmd.Flags().GetString("include")

	alg, err := extractor.Lookup(name)
	if err != nil {
		return err
	}

	found, err := imagery.Discover(args, include)
	if err != nil {
		return err
	}
	if len(found.Unavailable) > 0 {
		for _, path := range found.Unavailable {
			fmt.Fprintf(os.Stderr, "the following path doesn't exist: %s\n", path)
		}
		return fmt.Errorf("please correct any problems and try again")
	}
	if len(found.Images) == 0 {
		return fmt.Errorf("no image files found")
	}

	failures := 0
	for _, image := range found.Images {
		grid, err := imagery.Load(image)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", image, err)
			failures++
			continue
		}
		value, err := alg.Calculate(grid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", image, err)
			failures++
			continue
		}
		fmt.Printf("%s,%s\n", image, strings.Join(value.Strings(), ","))
	}

	if failures > 0 {
		return fmt.Errorf("%d file(s) failed", failures)
	}
	return nil
}
