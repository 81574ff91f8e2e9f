package markup_test

import (
	"testing"

	"ywbridge/internal/document"
	"ywbridge/internal/markup"
)

func TestRoundTrip(t *testing.T) {
	tests := []string{
		"Plain text.",
		"Ann walked [i]slowly[/i] to the [b]pier[/b].",
		"[i]a [b]b[/b] c[/i]",
		"[b]x [i]y[/b] z[/i]",
		"Before /* a comment */ after.",
		"Ann /*check this*/ arrived.",
		"[i]x /* y */ z[/i]",
		"Empty /**/ comment",
		"Open /* note without close",
		"> A quotation\n- first\n- second",
		"Hello [lang=de-DE]Welt[/lang=de-DE], and [lang=fr-FR]monde[/lang=fr-FR].",
		"One\n\nThree",
	}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			got := markup.Encode(markup.Decode(tt))
			if got != tt {
				t.Fatalf("round trip changed text:\n got %q\nwant %q", got, tt)
			}
		})
	}
}

func TestDecodeRoles(t *testing.T) {
	paras := markup.Decode("> quoted\n- item\nbody")
	want := []document.Role{document.RoleQuotation, document.RoleList, document.RoleBody}
	if len(paras) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d", len(want), len(paras))
	}
	for i, p := range paras {
		if p.Role != want[i] {
			t.Fatalf("paragraph %d: role %s, want %s", i, p.Role, want[i])
		}
	}
	if paras[0].Text() != "quoted" {
		t.Fatalf("prefix not stripped: %q", paras[0].Text())
	}
}

func TestDecodeSpansCrossParagraphs(t *testing.T) {
	paras := markup.Decode("[i]one\ntwo[/i] three")
	if !paras[1].Runs[0].Italic || paras[1].Runs[1].Italic {
		t.Fatalf("unexpected runs %+v", paras[1].Runs)
	}
	if got := markup.Encode(paras); got != "[i]one[/i]\n[i]two[/i] three" {
		t.Fatalf("unexpected encoding %q", got)
	}
}

func TestDecodeDropsLossyTags(t *testing.T) {
	content := "[u]under[/u] [s]struck[/s] [c]centered"
	if !markup.Lossy(content) {
		t.Fatal("expected lossy content to be detected")
	}
	if got := markup.Encode(markup.Decode(content)); got != "under struck centered" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestEncodeCleanup(t *testing.T) {
	runs := []document.Run{
		{Text: "a", Italic: true},
		{Text: "b", Italic: true, Lang: "de"},
		{Text: "c", Lang: "de"},
		{Text: "", Bold: true},
	}
	if got := markup.EncodeRuns(runs); got != "[i]a[lang=de]b[/i]c[/lang=de]" {
		t.Fatalf("unexpected encoding %q", got)
	}
	paras := []*document.Paragraph{
		document.NewParagraph(document.RoleBody, "text"),
		document.NewParagraph(document.RoleBody, ""),
		document.NewParagraph(document.RoleBody, " "),
	}
	if got := markup.Encode(paras); got != "text" {
		t.Fatalf("trailing empty paragraphs not trimmed: %q", got)
	}
}

func TestPlainAndRawCode(t *testing.T) {
	if got := markup.Plain("[i]Hi[/i] /* note */there [lang=de]x[/lang=de]"); got != "Hi there x" {
		t.Fatalf("unexpected plain text %q", got)
	}
	if !markup.IsRawCode("  <HTML><p>x</p>") || !markup.IsRawCode("<TEX>\\emph{x}") {
		t.Fatal("expected raw code to be detected")
	}
	if markup.IsRawCode("Plain <HTML> inside") {
		t.Fatal("inline HTML is not raw code")
	}
}

func TestDecodeComments(t *testing.T) {
	paras := markup.Decode("Ann /*check this*/ arrived.\n/* open note")
	if notes := paras[0].Notes(); len(notes) != 1 || notes[0] != "check this" {
		t.Fatalf("unexpected notes %q", notes)
	}
	if got := paras[1].Text(); got != "/* open note" || len(paras[1].Notes()) != 0 {
		t.Fatalf("unterminated comment must stay text, got %q", got)
	}
	runs := []document.Run{{Text: "a"}, {Text: " spaced ", Note: true}, {Text: "b"}}
	if got := markup.EncodeRuns(runs); got != "a/* spaced */b" {
		t.Fatalf("unexpected encoding %q", got)
	}
}
