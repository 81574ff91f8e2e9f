package ident

import (
	"fmt"
	"slices"
	"strconv"

	"ywbridge/internal/faults"
)

type entry struct {
	parent  Marker
	index   int
	claimed bool
}

// Table maps markers to the nodes of one project. Parsers build a fresh table
// for every document they read and resolve each marker they meet through it.
type Table struct {
	entries   map[Marker]*entry
	lastIndex map[Marker]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		entries:   make(map[Marker]*entry),
		lastIndex: make(map[Marker]int),
	}
}

// Register adds a node. parent is the owning chapter for scenes and the zero
// marker otherwise; index is the node's position among its parent's children.
func (t *Table) Register(m Marker, parent Marker, index int) {
	t.entries[m] = &entry{parent: parent, index: index}
}

// Known reports whether m is registered.
func (t *Table) Known(m Marker) bool {
	_, ok := t.entries[m]
	return ok
}

// Parent returns the registered parent of m.
func (t *Table) Parent(m Marker) (Marker, bool) {
	e, ok := t.entries[m]
	if !ok {
		return Marker{}, false
	}
	return e.parent, true
}

// Claim resolves a marker met while reading a document. parent is the chapter
// the marker was found in, or the zero marker when the document carries no
// chapter context.
//
// An unregistered marker yields an UnknownIdentifierError; the caller skips
// the section. A marker claimed twice, found under a foreign chapter, or found
// before a sibling it used to follow yields a MarkerIntegrityError.
func (t *Table) Claim(m Marker, parent Marker) error {
	e, ok := t.entries[m]
	if !ok {
		return &faults.UnknownIdentifierError{Marker: m.String()}
	}
	if e.claimed {
		return &faults.MarkerIntegrityError{Marker: m.String(), Reason: "appears more than once"}
	}
	e.claimed = true
	if parent.IsZero() || e.parent.IsZero() {
		return nil
	}
	if parent != e.parent {
		return &faults.MarkerIntegrityError{
			Marker: m.String(),
			Reason: fmt.Sprintf("found in %s but belongs to %s", parent, e.parent),
		}
	}
	if last, seen := t.lastIndex[parent]; seen && e.index < last {
		return &faults.MarkerIntegrityError{Marker: m.String(), Reason: "sections reordered within " + parent.String()}
	}
	t.lastIndex[parent] = e.index
	return nil
}

// Claimed reports whether m was claimed.
func (t *Table) Claimed(m Marker) bool {
	e, ok := t.entries[m]
	return ok && e.claimed
}

// Unclaimed returns registered markers of kind that no section claimed,
// ordered by identifier.
func (t *Table) Unclaimed(kind Kind) []Marker {
	var out []Marker
	for m, e := range t.entries {
		if m.Kind == kind && !e.claimed {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b Marker) int {
		x, _ := strconv.Atoi(a.ID)
		y, _ := strconv.Atoi(b.ID)
		return x - y
	})
	return out
}
