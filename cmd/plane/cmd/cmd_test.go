package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, initFormat, metricsAddr = "", "yaml", ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("version output = %q, want it to contain %q", out, Version)
	}
}

func TestConfigInitThenCheck(t *testing.T) {
	tests := []struct {
		format string
		file   string
	}{
		{"yaml", "plane.yaml"},
		{"toml", "plane.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			if _, err := run(t, "config", "init", "--format", tt.format, dir); err != nil {
				t.Fatalf("config init error = %v", err)
			}
			path := filepath.Join(dir, tt.file)
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("config init did not write %s: %v", path, err)
			}

			out, err := run(t, "config", "check", path)
			if err != nil {
				t.Fatalf("config check error = %v", err)
			}
			if !strings.Contains(out, "ok (version 1.0.0)") {
				t.Errorf("config check output = %q, want ok", out)
			}

			if _, err := run(t, "config", "init", dir); err == nil {
				t.Error("second config init error = nil, want already exists")
			}
		})
	}
}

func TestConfigCheckErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "plane.yaml")
	if err := os.WriteFile(bad, []byte("version: 2.0.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
	}{
		{"unsupported version", []string{"config", "check", bad}},
		{"missing file", []string{"config", "check", filepath.Join(dir, "nope.yaml")}},
		{"config flag", []string{"--config", bad, "config", "check"}},
		{"bad format", []string{"config", "init", "--format", "ini", t.TempDir()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v error = nil, want error", tt.args)
			}
		})
	}
}
