package testsupport

import (
	"path/filepath"
	"testing"

	"ywbridge/internal/project"
)

// SampleProject returns a small novel: a part heading, one chapter with the
// scenes "Arrival" and "Departure", two characters, and one location.
func SampleProject() *project.Project {
	p := project.New("Harbor Lights")
	p.Author = "Test Author"
	p.LanguageCode, p.CountryCode = "en", "US"

	part := p.NewChapter("")
	part.Title = "Part One"
	part.BeginsSection = true

	ch := p.NewChapter("")
	ch.Title = "Chapter One"
	ch.Desc = "The ship comes in."

	ann := p.NewCharacter("")
	ann.Title = "Ann"
	ann.FullName = "Ann Smith"
	ann.IsMajor = true
	bob := p.NewCharacter("")
	bob.Title = "Bob"

	harbor := p.NewLocation("")
	harbor.Title = "Harbor"

	arrival := p.NewScene(ch.ID, "")
	arrival.Title = "Arrival"
	arrival.Desc = "Ann comes home."
	arrival.Characters = []string{ann.ID}
	arrival.Locations = []string{harbor.ID}
	arrival.SetContent("Ann arrived at dawn.")

	departure := p.NewScene(ch.ID, "")
	departure.Title = "Departure"
	departure.Characters = []string{ann.ID, bob.ID}
	departure.SetContent("Bob left [i]quickly[/i].")
	return p
}

// WriteProject saves p as <dir>/<name>.yw7 and returns the path.
func WriteProject(t testing.TB, dir, name string, p *project.Project) string {
	t.Helper()
	path := filepath.Join(dir, name+".yw7")
	if err := p.Save(path); err != nil {
		t.Fatalf("save project: %v", err)
	}
	return path
}

// LoadProject loads the project at path.
func LoadProject(t testing.TB, path string) *project.Project {
	t.Helper()
	p, err := project.Load(path)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	return p
}
