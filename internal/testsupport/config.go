package testsupport

import (
	"path/filepath"
	"testing"

	"ywbridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Level = "debug"
	cfgVal.Documents.Author = "Test Author"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithoutJournal disables the conversion journal.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// WithoutBackups disables project backups before write-back.
func WithoutBackups() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Documents.Backup = false
	}
}

// WithBackupKeep overrides how many project backups are retained.
func WithBackupKeep(keep int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Documents.Backup = true
		b.cfg.Documents.BackupKeep = keep
	}
}

// WithFallbackLanguage overrides the fallback document language.
func WithFallbackLanguage(tag string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Language.Default = tag
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// ProjectDir returns a directory for project files inside the config's temp
// root, creating it on first use.
func ProjectDir(t testing.TB, cfg *config.Config) string {
	t.Helper()
	dir := filepath.Join(BaseDir(cfg), "novels")
	MkdirAll(t, dir)
	return dir
}
