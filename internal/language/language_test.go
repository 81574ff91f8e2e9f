package language

import (
	"errors"
	"testing"

	"ywbridge/internal/faults"
)

func TestCheckLocale(t *testing.T) {
	tests := []struct {
		lang, country string
		want          Locale
		valid         bool
	}{
		{"en", "US", Locale{"en", "US"}, true},
		{"de", "DE", Locale{"de", "DE"}, true},
		{"zxx", "none", None, true},
		{"", "", None, false},
		{"eng", "US", None, false},
		{"EN", "US", None, false},
		{"en", "us", None, false},
		{"en", "USA", None, false},
	}
	for _, tt := range tests {
		got, err := CheckLocale(tt.lang, tt.country)
		if got != tt.want {
			t.Errorf("CheckLocale(%q, %q) = %+v, want %+v", tt.lang, tt.country, got, tt.want)
		}
		if tt.valid && err != nil {
			t.Errorf("CheckLocale(%q, %q) unexpected error %v", tt.lang, tt.country, err)
		}
		if !tt.valid && !errors.Is(err, faults.ErrInvalidLanguageCode) {
			t.Errorf("CheckLocale(%q, %q) expected invalid language error, got %v", tt.lang, tt.country, err)
		}
	}
}

func TestSystemLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "C")
	t.Setenv("LANG", "fr_FR.UTF-8")
	loc, ok := SystemLocale()
	if !ok || loc != (Locale{"fr", "FR"}) {
		t.Fatalf("unexpected system locale %+v (ok=%v)", loc, ok)
	}

	t.Setenv("LANG", "")
	if _, ok := SystemLocale(); ok {
		t.Fatal("expected no system locale")
	}
}

func TestResolveFallsBack(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
	loc, err := Resolve("", "", Locale{"en", "GB"})
	if err != nil || loc != (Locale{"en", "GB"}) {
		t.Fatalf("unexpected fallback %+v, %v", loc, err)
	}
	loc, err = Resolve("xx1", "", Locale{"en", "GB"})
	if !loc.IsNone() || err == nil {
		t.Fatalf("expected sentinel locale, got %+v, %v", loc, err)
	}
}

func TestTagsAndNames(t *testing.T) {
	if got := (Locale{"de", "DE"}).Tag(); got != "de-DE" {
		t.Fatalf("unexpected tag %q", got)
	}
	if got := None.Tag(); got != "zxx" {
		t.Fatalf("unexpected sentinel tag %q", got)
	}
	if got := ParseTag("pt_BR"); got != (Locale{"pt", "BR"}) {
		t.Fatalf("unexpected parsed tag %+v", got)
	}
	if got := DisplayName("de"); got != "German" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("unexpected empty display name %q", got)
	}
}
