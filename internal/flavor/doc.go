// Package flavor renders a project into document flavors and applies edited
// documents back to the project.
//
// Every flavor is described by a Descriptor. A single grammar engine reads
// the descriptor to decide which chapters and scenes are eligible, which
// field a document edits, how sections are marked and whether the split
// grammar applies. Write-back validates every section marker before the
// project is touched: integrity errors abort without side effects, unknown
// identifiers and content anomalies are recovered and reported.
package flavor
