package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ywbridge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("YWBRIDGE_LOG_LEVEL", "")
	t.Setenv("YWBRIDGE_AUTHOR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "ywbridge")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.JournalPath() != filepath.Join(wantState, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	if !cfg.Documents.Backup || cfg.Documents.BackupKeep != 5 {
		t.Fatalf("unexpected backup defaults: %+v", cfg.Documents)
	}
	if got := cfg.FallbackLocale(); got.Language != "en" || got.Country != "US" {
		t.Fatalf("unexpected fallback locale: %+v", got)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("YWBRIDGE_LOG_LEVEL", "")
	configPath := filepath.Join(tempDir, "ywbridge.toml")

	type payload struct {
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
		Language struct {
			Default string `toml:"default"`
		} `toml:"language"`
		Documents struct {
			Author     string `toml:"author"`
			BackupKeep int    `toml:"backup_keep"`
		} `toml:"documents"`
		Journal struct {
			Path string `toml:"path"`
		} `toml:"journal"`
	}
	custom := payload{}
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"
	custom.Language.Default = "de_DE"
	custom.Documents.Author = "  Ann Author "
	custom.Documents.BackupKeep = 2
	custom.Journal.Path = filepath.Join(tempDir, "history", "events.db")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
	if cfg.Language.Default != "de-DE" {
		t.Fatalf("expected normalized language tag, got %q", cfg.Language.Default)
	}
	if cfg.Documents.Author != "Ann Author" {
		t.Fatalf("expected trimmed author, got %q", cfg.Documents.Author)
	}
	if cfg.Documents.BackupKeep != 2 {
		t.Fatalf("expected backup_keep 2, got %d", cfg.Documents.BackupKeep)
	}
	if !cfg.Documents.Backup {
		t.Fatal("expected backup default to survive partial file")
	}
	if cfg.JournalPath() != custom.Journal.Path {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
}

func TestLoadEnvLogLevelOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ywbridge.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"error\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("YWBRIDGE_LOG_LEVEL", "WARN")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env level, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("YWBRIDGE_LOG_LEVEL", "")
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"log level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
		{"language", "[language]\ndefault = \"english\"\n", "language.default"},
		{"backup keep", "[documents]\nbackup_keep = -1\n", "documents.backup_keep"},
		{"unknown key", "[documents]\nopen_after = true\n", "parse config"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ywbridge.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Logging.RetentionDays != config.Default().Logging.RetentionDays {
		t.Fatalf("unexpected retention: %d", cfg.Logging.RetentionDays)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("YWBRIDGE_LOG_LEVEL", "")
	t.Setenv("YWBRIDGE_AUTHOR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path, ""); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Documents.BackupKeep != 5 {
		t.Fatalf("unexpected sample backup_keep: %d", cfg.Documents.BackupKeep)
	}
	if cfg.Documents.Author != "" {
		t.Fatalf("unexpected sample author: %q", cfg.Documents.Author)
	}
}

func TestCreateSampleFillsAuthor(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("YWBRIDGE_LOG_LEVEL", "")
	t.Setenv("YWBRIDGE_AUTHOR", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path, `Jane "JJ" O'Hara`); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Documents.Author != `Jane "JJ" O'Hara` {
		t.Fatalf("unexpected author %q", cfg.Documents.Author)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/novels")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "novels") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
