// Package cmd implements the plane CLI commands.
//
// Each subcommand lives in its own file and registers itself with the root
// command from init.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/plane/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "plane",
	Short: "plane - reactive node trees with behavior-chain input dispatch",
	Long: `plane builds a tree of nodes whose input events run through chains of
behaviors: focus, selection, dragging, panning and clipboard handling.

This tool checks and scaffolds plane configuration files and runs an
interactive terminal demo.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		fmt.Sprintf("config file (default: first of %v in the working directory)", config.FileNames))
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI with os.Args, passing ctx to the commands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveConfig returns the config file in use: --config, else the first
// config file of the working directory. It returns "" when there is none.
func resolveConfig() string {
	if configPath != "" {
		return configPath
	}
	if path, ok := config.Find("."); ok {
		return path
	}
	return ""
}

// loadConfig loads the file named by resolveConfig, or the defaults.
func loadConfig() (*config.Config, string, error) {
	path := resolveConfig()
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}
