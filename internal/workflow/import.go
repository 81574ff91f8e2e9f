package workflow

import (
	"context"
	"time"

	"ywbridge/internal/importer"
	"ywbridge/internal/journal"
	"ywbridge/internal/logging"
)

// Import builds a new project from the document req.Document and saves it
// next to the document. An existing project file is never overwritten.
func (m *Manager) Import(ctx context.Context, req Request) (*Outcome, error) {
	ctx, out, logger := m.session(ctx, OpImport)
	started := time.Now()

	docPath, err := absPath(req.Document)
	if err != nil {
		return nil, err
	}
	out.DocumentPath = docPath
	out.ProjectPath = importer.ProjectPath(docPath)
	logger = logging.WithContext(ctx, logger).With(
		logging.String(logging.FieldProject, out.ProjectPath),
		logging.String(logging.FieldDocument, out.DocumentPath),
	)

	if err := m.importDocument(ctx, out); err != nil {
		logFailure(logger, err)
		return nil, err
	}

	logReport(logger, out.Report)
	m.record(ctx, logger, journal.KindImport, out)
	logger.Info("project created",
		logging.String("mode", out.Mode.String()),
		logging.Strings("languages", out.Languages),
		logging.String("summary", out.Report.Summary()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}

func (m *Manager) importDocument(ctx context.Context, out *Outcome) (err error) {
	lock, err := acquireLock(out.ProjectPath)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	res, err := importer.Import(m.store, out.DocumentPath, out.Report)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	out.Mode, out.Languages = res.Mode, res.Languages
	return res.Project.Save(res.ProjectPath)
}
