// Package ident allocates and resolves the identifiers that bind document
// sections and table rows to project tree nodes.
//
// Every node kind has its own numeric identifier space. A Marker is the
// rendered form of an identifier ("ScID:12"); documents carry markers as
// section names, visible proof brackets or table cells. Allocator hands out
// fresh identifiers and never reuses one it has seen during its lifetime.
//
// Table is the explicit marker-to-node lookup a parser rebuilds from the
// project before reading a document. Claiming markers through the table is how
// parsers detect duplicated, moved or out-of-order sections.
package ident
