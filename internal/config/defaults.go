package config

const (
	defaultLogDir           = "~/.local/share/ywbridge/logs"
	defaultStateDir         = "~/.local/share/ywbridge"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultLanguage         = "en-US"
	defaultBackupKeep       = 5
	defaultJournalFile      = "journal.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Language: Language{
			Default: defaultLanguage,
		},
		Documents: Documents{
			Backup:     true,
			BackupKeep: defaultBackupKeep,
		},
		Journal: Journal{
			Enabled: true,
		},
	}
}
