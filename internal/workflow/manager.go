package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ywbridge/internal/config"
	"ywbridge/internal/document"
	"ywbridge/internal/faults"
	"ywbridge/internal/flavor"
	"ywbridge/internal/journal"
	"ywbridge/internal/logging"
	"ywbridge/internal/odf"
	"ywbridge/internal/project"
)

// Manager runs generate, write-back, and import commands.
type Manager struct {
	cfg     *config.Config
	store   document.Store
	journal *journal.Store
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithJournal records command outcomes in j and consults it before split
// write-backs.
func WithJournal(j *journal.Store) ManagerOption {
	return func(m *Manager) {
		m.journal = j
	}
}

// WithDocumentStore replaces the OpenDocument store.
func WithDocumentStore(store document.Store) ManagerOption {
	return func(m *Manager) {
		m.store = store
	}
}

// WithClock overrides the time source used for backups and journal rows.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager constructs a workflow manager. Documents are read and written as
// OpenDocument files unless WithDocumentStore says otherwise.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:    cfg,
		store:  odf.NewStore(cfg.Documents.Author),
		logger: logging.NewComponentLogger(logger, "workflow"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run dispatches req to the command named by op.
func (m *Manager) Run(ctx context.Context, op Operation, req Request) (*Outcome, error) {
	switch op {
	case OpGenerate:
		return m.Generate(ctx, req)
	case OpWriteBack:
		return m.WriteBack(ctx, req)
	case OpImport:
		return m.Import(ctx, req)
	}
	return nil, fmt.Errorf("unknown operation %q", op)
}

// Convert writes back a document with a known flavor suffix and imports any
// other document as a new project.
func (m *Manager) Convert(ctx context.Context, docPath string) (*Outcome, error) {
	if _, _, ok := flavor.FromPath(docPath); ok {
		return m.WriteBack(ctx, Request{Document: docPath})
	}
	return m.Import(ctx, Request{Document: docPath})
}

// CrossReference loads the project at projectPath and indexes it.
func (m *Manager) CrossReference(ctx context.Context, projectPath string) (*project.Project, *flavor.CrossReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	p, err := project.Load(projectPath)
	if err != nil {
		return nil, nil, err
	}
	return p, flavor.BuildCrossReference(p), nil
}

// History lists journal events of projectPath, newest first.
func (m *Manager) History(ctx context.Context, projectPath string, limit int) ([]*journal.Event, error) {
	if m.journal == nil {
		return nil, errors.New("conversion journal is disabled")
	}
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return nil, err
		}
		projectPath = abs
	}
	return m.journal.History(ctx, projectPath, limit)
}

// session starts a command: it allocates the session ID and the logger that
// carries it.
func (m *Manager) session(ctx context.Context, op Operation) (context.Context, *Outcome, *slog.Logger) {
	id := m.newID()
	ctx = logging.WithSession(ctx, id)
	out := &Outcome{SessionID: id, Operation: op, Report: &faults.Report{}}
	logger := logging.WithSessionID(m.logger, id).With(logging.String("operation", string(op)))
	return ctx, out, logger
}

func (m *Manager) env(projectPath string, report *faults.Report) flavor.Env {
	return flavor.EnvFor(projectPath, m.cfg.FallbackLocale(), report)
}

func absPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
