package workflow

import (
	"context"
	"fmt"
	"time"

	"ywbridge/internal/faults"
	"ywbridge/internal/flavor"
	"ywbridge/internal/journal"
	"ywbridge/internal/logging"
	"ywbridge/internal/project"
)

// Generate renders the project req.Project as the flavor req.Flavor.
func (m *Manager) Generate(ctx context.Context, req Request) (*Outcome, error) {
	ctx, out, logger := m.session(ctx, OpGenerate)
	started := time.Now()

	d, ok := flavor.Lookup(req.Flavor)
	if !ok {
		err := faults.Wrap(faults.ErrUnsupportedFlavor, "generate", req.Flavor, "unknown flavor", nil)
		logFailure(logger, err)
		return nil, err
	}
	ctx = logging.WithFlavor(ctx, d.Name)
	out.Flavor = d.Name

	projectPath, err := absPath(req.Project)
	if err != nil {
		return nil, err
	}
	out.ProjectPath = projectPath
	out.DocumentPath = flavor.DocumentPath(projectPath, d)
	if req.Document != "" {
		if out.DocumentPath, err = absPath(req.Document); err != nil {
			return nil, err
		}
	}
	logger = logging.WithContext(ctx, logger).With(
		logging.String(logging.FieldProject, out.ProjectPath),
		logging.String(logging.FieldDocument, out.DocumentPath),
	)

	if err := m.generate(ctx, req, d, out); err != nil {
		logFailure(logger, err)
		return nil, err
	}

	logReport(logger, out.Report)
	m.record(ctx, logger, journal.KindGenerate, out)
	logger.Info("document generated",
		logging.String("summary", out.Report.Summary()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}

func (m *Manager) generate(ctx context.Context, req Request, d *flavor.Descriptor, out *Outcome) (err error) {
	lock, err := acquireLock(out.ProjectPath)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	exists, err := fileExists(out.DocumentPath)
	if err != nil {
		return fmt.Errorf("check document: %w", err)
	}
	if exists && !req.Overwrite {
		return &faults.TargetExistsError{Path: out.DocumentPath}
	}

	p, err := project.Load(out.ProjectPath)
	if err != nil {
		return err
	}
	return flavor.Generate(m.store, p, d, out.DocumentPath, m.env(out.ProjectPath, out.Report))
}
