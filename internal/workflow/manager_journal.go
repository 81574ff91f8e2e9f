package workflow

import (
	"context"
	"log/slog"

	"ywbridge/internal/faults"
	"ywbridge/internal/journal"
	"ywbridge/internal/logging"
	"ywbridge/internal/textutil"
)

// checkRepeatedSplit rejects a split document whose previous write-back
// already applied its split markers.
func (m *Manager) checkRepeatedSplit(ctx context.Context, docPath string) error {
	if m.journal == nil {
		return nil
	}
	last, err := m.journal.LastForDocument(ctx, docPath)
	if err != nil {
		return err
	}
	if last.SplitApplied() {
		return faults.Wrap(faults.ErrRepeatedSplit, "write-back", docPath,
			"the split was applied on "+last.CreatedAt.Local().Format("2006-01-02 15:04")+"; generate the document again", nil)
	}
	return nil
}

// record appends the outcome to the journal. Journal failures never fail the
// command; the project is already saved at this point.
func (m *Manager) record(ctx context.Context, logger *slog.Logger, kind journal.Kind, out *Outcome) {
	if m.journal == nil {
		return
	}
	ev := &journal.Event{
		SessionID:    out.SessionID,
		Kind:         kind,
		ProjectPath:  out.ProjectPath,
		DocumentPath: out.DocumentPath,
		Flavor:       out.Flavor,
		Warnings:     out.Report.Len(),
		CreatedAt:    m.now().UTC(),
	}
	if out.Result != nil {
		ev.Split = out.Result.Split
	}
	ev.DocumentDigest = m.digest(logger, out.DocumentPath)
	ev.ProjectDigest = m.digest(logger, out.ProjectPath)
	if err := m.journal.Record(ctx, ev); err != nil {
		logging.WarnWithContext(logger, "journal entry not recorded", "journal_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check journal.path and disk space"),
			logging.String(logging.FieldImpact, "a repeated write-back of a split document cannot be detected"),
		)
	}
}

func (m *Manager) digest(logger *slog.Logger, path string) string {
	if path == "" {
		return ""
	}
	sum, err := textutil.DigestFile(path)
	if err != nil {
		logger.Debug("digest unavailable", logging.String("path", path), logging.Error(err))
		return ""
	}
	return sum
}
