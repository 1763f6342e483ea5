package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cct-datascience/drone-pipeline/internal/config"
	"github.com/cct-datascience/drone-pipeline/internal/container"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the extractor container image",
	Long: `Build runs the generated Dockerfile through docker (or podman when
docker is unavailable), tagging the image after the extractor's sensor name
and version.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("file", config.DefaultFile, "extractor configuration file")
	buildCmd.Flags().String("dir", ".", "build context directory")
	buildCmd.Flags().String("tag", "", "image tag (default: <sensor>:<version>)")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	dir, _ := cmd.Flags().GetString("dir")
	tag, _ := cmd.Flags().GetString("tag")

	cfg, err := config.Load(file)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if tag == "" {
		tag = fmt.Sprintf("%s:%s", cfg.SensorName(), cfg.Version)
	}

	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "building %s with %s\n", tag, rt.Name())

	if err := rt.Build(dir, tag, os.Stdout); err != nil {
		return err
	}
	if err := rt.ImageExists(tag); err != nil {
		return fmt.Errorf("build finished but the image is missing: %w", err)
	}
	fmt.Fprintf(os.Stderr, "built %s\n", tag)
	return nil
}
