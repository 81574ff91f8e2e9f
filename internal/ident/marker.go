package ident

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind names an identifier space.
type Kind string

const (
	KindChapter   Kind = "ChID"
	KindScene     Kind = "ScID"
	KindCharacter Kind = "CrID"
	KindLocation  Kind = "LcID"
	KindItem      Kind = "ItID"
)

// Kinds lists all identifier spaces.
var Kinds = []Kind{KindChapter, KindScene, KindCharacter, KindLocation, KindItem}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Marker binds a document region to one node.
type Marker struct {
	Kind Kind
	ID   string
}

// New returns the marker for kind and id.
func New(kind Kind, id string) Marker {
	return Marker{Kind: kind, ID: id}
}

func (m Marker) String() string {
	return string(m.Kind) + ":" + m.ID
}

// IsZero reports whether m is unset.
func (m Marker) IsZero() bool {
	return m.Kind == "" && m.ID == ""
}

var markerPattern = regexp.MustCompile(`\b(ChID|ScID|CrID|LcID|ItID):([0-9]+)\b`)

// ParseMarker extracts the first marker from s. It accepts bare markers
// ("ScID:3"), region names ("ScID:3|region") and hyperlink targets
// ("file:///x_manuscript.odt#ScID:3%7Cregion").
func ParseMarker(s string) (Marker, bool) {
	match := markerPattern.FindStringSubmatch(s)
	if match == nil {
		return Marker{}, false
	}
	return Marker{Kind: Kind(match[1]), ID: match[2]}, true
}

// ParseMarkerOf is ParseMarker restricted to one kind.
func ParseMarkerOf(kind Kind, s string) (Marker, bool) {
	for _, match := range markerPattern.FindAllStringSubmatch(s, -1) {
		if Kind(match[1]) == kind {
			return Marker{Kind: kind, ID: match[2]}, true
		}
	}
	return Marker{}, false
}

// ValidID reports whether id is a positive decimal integer without sign or
// leading zeros.
func ValidID(id string) bool {
	if id == "" || strings.HasPrefix(id, "0") {
		return false
	}
	n, err := strconv.Atoi(id)
	return err == nil && n > 0 && strconv.Itoa(n) == id
}

// Sub returns a sub-section name such as "CrID_bio:4" used by documents that
// split one entity into several named regions.
func Sub(kind Kind, part, id string) string {
	return fmt.Sprintf("%s_%s:%s", kind, part, id)
}

var subPattern = regexp.MustCompile(`^(ChID|ScID|CrID|LcID|ItID)_([a-z]+):([0-9]+)$`)

// ParseSub splits a sub-section name produced by Sub.
func ParseSub(name string) (Marker, string, bool) {
	match := subPattern.FindStringSubmatch(strings.TrimSpace(name))
	if match == nil {
		return Marker{}, "", false
	}
	return Marker{Kind: Kind(match[1]), ID: match[3]}, match[2], true
}
