// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the drone-pipeline CLI, the
// command-line surface of the plot-level extractor workflow: scaffolding,
// artifact generation, image builds, algorithm test runs, plot processing,
// inbox watching, and run-history queries.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cct-datascience/drone-pipeline/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, otherwise the secret
// value for key if it exists.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the drone-pipeline CLI.
var rootCmd = &cobra.Command{
	Use:   "drone-pipeline",
	Short: "Toolkit for plot-level drone imagery extractors",
	Long: `drone-pipeline covers the extractor author's workflow end to end. An
extractor computes a per-plot phenomic value from RGB drone imagery; this CLI
scaffolds the extractor workspace, generates its registration metadata and
Dockerfile, builds the container image, test-runs the algorithm over local
imagery, performs full plot-level processing runs, watches an inbox for new
imagery, and queries the local run history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./drone-pipeline.yaml or ~/.config/drone-pipeline/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("drone-pipeline")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "drone-pipeline"))
		}
	}

	viper.SetEnvPrefix("DRONE_PIPELINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
