package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-drift/plane/pkg/config"
)

var initFormat string

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Check or create configuration files",
	}
	checkCmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file and print the resolved settings.

Without a path, the file named by --config is checked, or else the first of
plane.yaml, plane.yml and plane.toml in the working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigCheck,
	}
	initCmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}
	initCmd.Flags().StringVarP(&initFormat, "format", "f", "yaml", "file format: yaml or toml")
	configCmd.AddCommand(checkCmd, initCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	path := resolveConfig()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no config file found; pass a path or run \"plane config init\"")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	platform, _ := cfg.Platform()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: ok (version %s)\n", path, cfg.Version)
	fmt.Fprintf(out, "  platform:      %s\n", platform)
	fmt.Fprintf(out, "  double click:  %dms within %.1f\n", cfg.Input.DoubleClickMS, cfg.Input.ClickDistance)
	fmt.Fprintf(out, "  wheel window:  %dms\n", cfg.Input.WheelWindowMS)
	fmt.Fprintf(out, "  trace:         %s %q\n", cfg.Trace.Level, cfg.Trace.Pattern)
	fmt.Fprintf(out, "  log:           %s %s\n", cfg.Log.Level, cfg.Log.File)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	var name string
	switch initFormat {
	case "yaml", "yml":
		name = "plane.yaml"
	case "toml":
		name = "plane.toml"
	default:
		return fmt.Errorf("unsupported format %q (want yaml or toml)", initFormat)
	}
	if existing, ok := config.Find(dir); ok {
		return fmt.Errorf("%s already exists", existing)
	}

	data, err := config.Default().Marshal(filepath.Ext(name))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
