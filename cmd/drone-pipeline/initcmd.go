package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cct-datascience/drone-pipeline/internal/config"
	"github.com/cct-datascience/drone-pipeline/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold an extractor workspace in the current directory",
	Long: `Init writes a starter extractor.yaml and Dockerfile.template and creates
the inbox and secrets directories. Existing files are left alone. Fill in
extractor.yaml, then run "drone-pipeline generate".`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	wrote := false
	if err := config.WriteTemplate(config.DefaultFile); err == nil {
		fmt.Println("  ", config.DefaultFile)
		wrote = true
	} else {
		fmt.Fprintf(os.Stderr, "skipped: %v\n", err)
	}
	if err := scaffold.WriteDefaultTemplate(scaffold.TemplateFile); err == nil {
		fmt.Println("  ", scaffold.TemplateFile)
		wrote = true
	} else {
		fmt.Fprintf(os.Stderr, "skipped: %v\n", err)
	}

	for _, dir := range []string{"inbox", ".secrets"} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir+string(os.PathSeparator))
	}

	if wrote {
		fmt.Println("Extractor workspace initialized.")
	}
	return nil
}
