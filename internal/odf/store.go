package odf

import (
	"time"

	"ywbridge/internal/document"
)

// Store reads and writes OpenDocument files.
type Store struct {
	// Author is recorded as creator of generated documents and annotations.
	Author string
	// Now stamps metadata; defaults to time.Now.
	Now func() time.Time
}

var _ document.Store = (*Store)(nil)

// NewStore returns a Store that stamps documents with author.
func NewStore(author string) *Store {
	return &Store{Author: author, Now: time.Now}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// ReadText reads an .odt file.
func (s *Store) ReadText(path string) (*document.Text, error) {
	parts, err := readPackage(path, mimeText, "content.xml", "styles.xml", "meta.xml")
	if err != nil {
		return nil, err
	}
	return readText(parts)
}

// WriteText writes doc as an .odt file.
func (s *Store) WriteText(path string, doc *document.Text) error {
	now := s.now()
	author := doc.Author
	if author == "" {
		author = s.Author
	}
	loc := localeOf(doc)
	return writePackage(path, mimeText, []part{
		{name: "content.xml", data: buildContent(doc, author, now)},
		{name: "styles.xml", data: buildStyles(loc)},
		{name: "meta.xml", data: buildMeta(doc.Title, author, doc.Desc, loc, now)},
	})
}

// ReadSheet reads the first table of an .ods file.
func (s *Store) ReadSheet(path string) (*document.Sheet, error) {
	parts, err := readPackage(path, mimeSheet, "content.xml")
	if err != nil {
		return nil, err
	}
	return readSheet(parts)
}

// WriteSheet writes sheet as an .ods file.
func (s *Store) WriteSheet(path string, sheet *document.Sheet) error {
	now := s.now()
	return writePackage(path, mimeSheet, []part{
		{name: "content.xml", data: buildSheet(sheet)},
		{name: "styles.xml", data: buildStyles(locale{language: "zxx", country: "none"})},
		{name: "meta.xml", data: buildMeta(sheet.Name, s.Author, "", locale{language: "zxx", country: "none"}, now)},
	})
}
