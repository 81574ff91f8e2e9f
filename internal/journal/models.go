package journal

import "time"

// Kind identifies the command that produced an event.
type Kind string

const (
	KindGenerate  Kind = "generate"
	KindWriteBack Kind = "writeback"
	KindImport    Kind = "import"
)

// Event is one journal row.
type Event struct {
	ID             int64
	SessionID      string
	Kind           Kind
	ProjectPath    string
	DocumentPath   string
	Flavor         string
	DocumentDigest string
	ProjectDigest  string
	// Split is set on write-backs that created chapters or scenes through
	// the split markers.
	Split     bool
	Warnings  int
	CreatedAt time.Time
}

// SplitApplied reports whether e is a write-back that already split the
// document's scenes.
func (e *Event) SplitApplied() bool {
	return e != nil && e.Kind == KindWriteBack && e.Split
}
