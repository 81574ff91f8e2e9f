package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ywbridge/internal/config"
	"ywbridge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	projectDir string
	project    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	testsupport.MkdirAll(t, homeDir)
	t.Setenv("HOME", homeDir)
	t.Setenv("YWBRIDGE_LOG_LEVEL", "")
	t.Setenv("YWBRIDGE_AUTHOR", "")

	configPath := filepath.Join(base, "ywbridge.toml")
	writeTestConfig(t, configPath, cfg)

	dir := testsupport.ProjectDir(t, cfg)
	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		projectDir: dir,
		project:    testsupport.WriteProject(t, dir, "novel", testsupport.SampleProject()),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\nstate_dir = %q\n\n[logging]\nlevel = \"error\"\n\n[documents]\nauthor = %q\nbackup = %t\nbackup_keep = %d\n\n[journal]\nenabled = %t\n",
		cfg.Paths.LogDir,
		cfg.Paths.StateDir,
		cfg.Documents.Author,
		cfg.Documents.Backup,
		cfg.Documents.BackupKeep,
		cfg.Journal.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
