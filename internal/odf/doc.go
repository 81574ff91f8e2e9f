// Package odf implements document.Store on OpenDocument packages.
//
// Text documents (.odt) map paragraph roles to a fixed set of named styles,
// formatting to nested text spans, annotations to office:annotation and
// sections to text:section. Spreadsheets (.ods) carry one table whose first
// row holds the column headers. XML is built and queried with xmlquery; the
// package container is a plain zip with an uncompressed mimetype entry.
package odf
