package config

import (
	"errors"
	"fmt"

	"ywbridge/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateLanguage(); err != nil {
		return err
	}
	return c.validateDocuments()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateLanguage() error {
	loc := c.FallbackLocale()
	if _, err := language.CheckLocale(loc.Language, loc.Country); err != nil {
		return fmt.Errorf("language.default %q must look like \"en-US\": %w", c.Language.Default, err)
	}
	return nil
}

func (c *Config) validateDocuments() error {
	if c.Documents.BackupKeep < 0 {
		return errors.New("documents.backup_keep must not be negative")
	}
	return nil
}
