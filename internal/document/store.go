package document

import (
	"fmt"
	"os"
	"sync"
)

// Store reads and writes whole documents.
type Store interface {
	ReadText(path string) (*Text, error)
	WriteText(path string, doc *Text) error
	ReadSheet(path string) (*Sheet, error)
	WriteSheet(path string, sheet *Sheet) error
}

// MemoryStore keeps documents in memory. It stands in for the office suite
// in tests.
type MemoryStore struct {
	mu     sync.Mutex
	texts  map[string]*Text
	sheets map[string]*Sheet
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{texts: make(map[string]*Text), sheets: make(map[string]*Sheet)}
}

func (m *MemoryStore) ReadText(path string) (*Text, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.texts[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return doc, nil
}

func (m *MemoryStore) WriteText(path string, doc *Text) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[path] = doc
	return nil
}

func (m *MemoryStore) ReadSheet(path string) (*Sheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sheet, ok := m.sheets[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return sheet, nil
}

func (m *MemoryStore) WriteSheet(path string, sheet *Sheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[path] = sheet
	return nil
}
