package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"ywbridge/internal/config"
	"ywbridge/internal/journal"
	"ywbridge/internal/logging"
	"ywbridge/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	managerOnce sync.Once
	manager     *workflow.Manager
	managerErr  error
	journal     *journal.Store
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureManager builds the workflow manager with the configured logger and,
// when enabled, the conversion journal.
func (c *commandContext) ensureManager() (*workflow.Manager, error) {
	c.managerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.managerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.managerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
			Dir:     cfg.Paths.LogDir,
			Pattern: logging.LogFilePattern,
			Keep:    []string{logging.LogFilePath(cfg.Paths.LogDir, time.Now())},
		})

		var opts []workflow.ManagerOption
		if cfg.Journal.Enabled {
			store, err := journal.Open(cfg)
			if err != nil {
				logging.WarnWithContext(logger, "journal unavailable; continuing without history", "journal_open_failed",
					logging.String(logging.FieldErrorHint, "check journal.path or remove the database"),
					logging.String(logging.FieldImpact, "repeated split write-backs are not detected"),
					logging.Error(err),
				)
			} else {
				c.journal = store
				opts = append(opts, workflow.WithJournal(store))
			}
		}
		c.manager = workflow.NewManager(cfg, logger, opts...)
	})
	return c.manager, c.managerErr
}

// withManager runs fn with the workflow manager and closes the journal
// afterwards.
func (c *commandContext) withManager(fn func(*workflow.Manager) error) error {
	mgr, err := c.ensureManager()
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(mgr)
}

// Close releases the journal opened by ensureManager.
func (c *commandContext) Close() error {
	if c.journal == nil {
		return nil
	}
	err := c.journal.Close()
	c.journal = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
