package main

import (
	"path/filepath"
	"testing"

	"ywbridge/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.LogDir)
	requireContains(t, out, "Project backups")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if !testsupport.Exists(t, target) {
		t.Fatalf("expected config file at %s", target)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	testsupport.WriteFile(t, path, "[logging]\nlevel = \"loud\"\n")
	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestConfigInitWithAuthorAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "ywbridge.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target, "--author", "Jane Doe"}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, target)
	requireContains(t, testsupport.ReadFile(t, target), "Jane Doe")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[documents]")
	requireContains(t, out, env.cfg.Paths.StateDir)
	requireContains(t, out, "Test Author")
}
