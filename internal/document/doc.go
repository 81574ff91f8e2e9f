// Package document is the abstract model of the rich-text and spreadsheet
// documents exchanged with the office suite.
//
// Flavor generators build a Text or a Sheet and hand it to a Store; parsers
// get the same structures back. The package knows nothing about the file
// format; see internal/odf for the ODF implementation of Store.
package document
