package workflow

import (
	"ywbridge/internal/faults"
	"ywbridge/internal/flavor"
	"ywbridge/internal/importer"
)

// Operation names a command the Manager runs.
type Operation string

const (
	OpGenerate  Operation = "generate"
	OpWriteBack Operation = "writeback"
	OpImport    Operation = "import"
)

// Request describes one command.
type Request struct {
	// Project is the yw7 file a document is generated from.
	Project string
	// Document is the document to write back or import. For generate it
	// overrides the derived <project>_<suffix>.<ext> path.
	Document string
	// Flavor names the flavor to generate.
	Flavor string
	// Overwrite allows generate to replace an existing document.
	Overwrite bool
}

// Outcome reports what a command did.
type Outcome struct {
	SessionID    string
	Operation    Operation
	ProjectPath  string
	DocumentPath string
	Flavor       string
	// BackupPath is the compressed project copy taken before a write-back.
	BackupPath string
	// Pruned lists backups removed by the retention setting.
	Pruned []string
	// Result is set for write-backs.
	Result *flavor.Result
	// Mode is set for imports.
	Mode      importer.Mode
	Languages []string
	Report    *faults.Report
}
