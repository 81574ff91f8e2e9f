// Package journal persists the conversion history of ywbridge in SQLite.
//
// Every generate, write-back, and import appends one Event recording the
// session, the project and document paths, the document flavor, content
// digests, and the number of warnings the command reported. The workflow
// consults the latest event of a document before writing it back so that a
// document whose split markers were already applied is rejected instead of
// splitting the same scenes a second time.
//
// The store follows the repository SQLite conventions: WAL journaling, a
// busy timeout plus bounded retry on SQLITE_BUSY, RFC3339Nano timestamps, and
// a schema_version row checked on open. A mismatched version yields
// ErrSchemaMismatch; delete the journal database to start over.
package journal
