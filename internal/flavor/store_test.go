package flavor_test

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"ywbridge/internal/faults"
	"ywbridge/internal/flavor"
	"ywbridge/internal/langspan"
	"ywbridge/internal/odf"
	"ywbridge/internal/project"
)

// markupProject fills richProject with the inline markup documents must
// carry unchanged: comments, language spans, quotations, lists, repeated
// spaces and an empty scene.
func markupProject(lang, country string) *project.Project {
	p := richProject()
	p.LanguageCode, p.CountryCode = lang, country
	def := lang + "-" + country

	alpha, beta := p.Scenes["1"], p.Scenes["2"]
	alpha.SetContent("Ann /*check this*/ arrived  early.\n" +
		"> A quoted line\n" +
		"- a listed line\n" +
		"\n" +
		"She said [lang=" + def + "]hello[/lang=" + def + "] and [lang=de-DE][i]Guten Tag[/i][/lang=de-DE].")
	alpha.Desc = "Ann comes home. /* spaced note */\n[i]Tired[/i] and [lang=de-DE]müde[/lang=de-DE]."
	beta.SetContent("Bob left [i]quickly[/i]. /* open note")

	gamma := p.NewScene(p.Chapters["2"].ID, "")
	gamma.Title = "Gamma"

	p.Chapters["2"].Desc = "The return /*of Ann*/."
	p.Characters["1"].Notes = "Likes  the sea.\n- rope\n- sails"
	p.Locations["1"].Desc = "Wet and [lang=" + def + "]loud[/lang=" + def + "]."
	langspan.Sync(langspan.VariableCodec{}, p)
	return p
}

func storeRoundTrip(t *testing.T, p *project.Project, d *flavor.Descriptor, env flavor.Env) {
	t.Helper()
	store := &odf.Store{Author: "Tester", Now: func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }}
	path := filepath.Join(t.TempDir(), "novel"+d.Suffix+d.Format.Ext())

	if d.Format == flavor.FormatSheet {
		sheet, err := flavor.RenderSheet(p, d, env)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if err := store.WriteSheet(path, sheet); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := store.ReadSheet(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if _, err := flavor.ApplySheet(p, d, got, env); err != nil {
			t.Fatalf("apply: %v", err)
		}
		return
	}

	doc, err := flavor.RenderText(p, d, env)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := store.WriteText(path, doc); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := store.ReadText(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := flavor.ApplyText(p, d, got, env); err != nil {
		t.Fatalf("apply: %v", err)
	}
}

func TestWritableFlavorsSurviveDocumentFiles(t *testing.T) {
	locales := []struct{ lang, country string }{
		{"en", "US"},
		{"fr", "FR"},
	}
	for _, loc := range locales {
		for _, d := range flavor.All() {
			if !d.Writable {
				continue
			}
			t.Run(loc.lang+"/"+d.Name, func(t *testing.T) {
				p := markupProject(loc.lang, loc.country)
				want := takeSnapshot(p)
				report := &faults.Report{}

				storeRoundTrip(t, p, d, newEnv(report))

				if got := takeSnapshot(p); !reflect.DeepEqual(got, want) {
					t.Fatalf("project changed by unedited round trip\n got: %+v\nwant: %+v", got, want)
				}
				if report.HasCode(faults.CodeUnknownIdentifier) || report.HasCode(faults.CodeRating) {
					t.Fatalf("unexpected warnings: %+v", report.Entries())
				}
			})
		}
	}
}

func TestManuscriptFileKeepsDocumentLanguageSpan(t *testing.T) {
	p := twoChapterProject()
	p.LanguageCode, p.CountryCode = "fr", "FR"
	p.Scenes["1"].SetContent("Il dit [lang=fr-FR]bonjour[/lang=fr-FR].")
	p.Scenes["2"].SetContent("Ann /*check this*/ arrived.\n/* open note without close")
	langspan.Sync(langspan.VariableCodec{}, p)

	storeRoundTrip(t, p, lookup(t, "manuscript"), newEnv(&faults.Report{}))

	if got := p.Scenes["1"].Content; got != "Il dit [lang=fr-FR]bonjour[/lang=fr-FR]." {
		t.Fatalf("language span lost: %q", got)
	}
	if got := p.Scenes["2"].Content; got != "Ann /*check this*/ arrived.\n/* open note without close" {
		t.Fatalf("comments changed: %q", got)
	}
}

func TestReadDocumentNormalizesCrossLineSpans(t *testing.T) {
	p := twoChapterProject()
	p.Scenes["1"].SetContent("[i]Ann\nwalked[/i] home.")

	storeRoundTrip(t, p, lookup(t, "manuscript"), newEnv(&faults.Report{}))

	if got := p.Scenes["1"].Content; got != "[i]Ann[/i]\n[i]walked[/i] home." {
		t.Fatalf("unexpected content %q", got)
	}
}
