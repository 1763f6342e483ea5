package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cct-datascience/drone-pipeline/internal/config"
	"github.com/cct-datascience/drone-pipeline/internal/scaffold"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate extractor_info.json and Dockerfile from extractor.yaml",
	Long: `Generate reads the extractor configuration and renders the registration
metadata file and the Dockerfile. If a problem is found with the
configuration, an error names the missing fields; correct the file and run
the command again.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("file", config.DefaultFile, "extractor configuration file")
	generateCmd.Flags().String("template", scaffold.TemplateFile, "Dockerfile template file")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	template, _ := cmd.Flags().GetString("template")

	cfg, err := config.Load(file)
	if err != nil {
		return err
	}

	if err := scaffold.WriteInfo(cfg, scaffold.InfoFile); err != nil {
		return err
	}
	fmt.Println("  ", scaffold.InfoFile)

	if err := scaffold.WriteDockerfile(cfg, template, scaffold.DockerfileName); err != nil {
		return err
	}
	fmt.Println("  ", scaffold.DockerfileName)
	return nil
}
