package workflow

import (
	"context"
	"log/slog"
	"time"

	"ywbridge/internal/faults"
	"ywbridge/internal/fileutil"
	"ywbridge/internal/flavor"
	"ywbridge/internal/journal"
	"ywbridge/internal/logging"
	"ywbridge/internal/project"
)

// WriteBack applies the edited document req.Document to the project it was
// generated from. The flavor and the project path are derived from the
// document name. On error the project file is left untouched.
func (m *Manager) WriteBack(ctx context.Context, req Request) (*Outcome, error) {
	ctx, out, logger := m.session(ctx, OpWriteBack)
	started := time.Now()

	docPath, err := absPath(req.Document)
	if err != nil {
		return nil, err
	}
	out.DocumentPath = docPath
	d, projectPath, ok := flavor.FromPath(docPath)
	if !ok {
		err := faults.Wrap(faults.ErrUnsupportedFlavor, "write-back", docPath, "no known flavor suffix; import it as a new project instead", nil)
		logFailure(logger, err)
		return nil, err
	}
	if req.Project != "" {
		if projectPath, err = absPath(req.Project); err != nil {
			return nil, err
		}
	}
	out.Flavor, out.ProjectPath = d.Name, projectPath
	ctx = logging.WithFlavor(ctx, d.Name)
	logger = logging.WithContext(ctx, logger).With(
		logging.String(logging.FieldProject, out.ProjectPath),
		logging.String(logging.FieldDocument, out.DocumentPath),
	)

	if err := m.writeBack(ctx, logger, d, out); err != nil {
		logFailure(logger, err)
		return nil, err
	}

	logReport(logger, out.Report)
	m.record(ctx, logger, journal.KindWriteBack, out)
	logger.Info("project updated",
		logging.Int("updated", out.Result.Updated),
		logging.Int("created", len(out.Result.Created)),
		logging.Int("deleted", len(out.Result.Deleted)),
		logging.Bool("split", out.Result.Split),
		logging.String("summary", out.Report.Summary()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}

func (m *Manager) writeBack(ctx context.Context, logger *slog.Logger, d *flavor.Descriptor, out *Outcome) (err error) {
	if !d.Writable {
		return faults.Wrap(faults.ErrReadOnlyFlavor, "write-back", d.Name, "", nil)
	}
	lock, err := acquireLock(out.ProjectPath)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	if d.Split {
		if err := m.checkRepeatedSplit(ctx, out.DocumentPath); err != nil {
			return err
		}
	}

	p, err := project.Load(out.ProjectPath)
	if err != nil {
		return err
	}
	res, err := flavor.WriteBack(m.store, p, d, out.DocumentPath, m.env(out.ProjectPath, out.Report))
	if err != nil {
		return err
	}
	out.Result, out.Languages = res, res.Languages

	if err := ctx.Err(); err != nil {
		return err
	}
	if m.cfg.Documents.Backup {
		if out.BackupPath, err = fileutil.BackupCompressed(out.ProjectPath, m.now()); err != nil {
			return err
		}
		pruned, pruneErr := fileutil.PruneBackups(out.ProjectPath, m.cfg.Documents.BackupKeep)
		if pruneErr != nil {
			logging.WarnWithContext(logger, "backup pruning failed", "backup_prune_failed",
				logging.Error(pruneErr),
				logging.String(logging.FieldErrorHint, "remove old backups by hand"),
				logging.String(logging.FieldImpact, "older backups remain on disk"),
			)
		}
		out.Pruned = pruned
	}
	return p.Save(out.ProjectPath)
}
