package ident_test

import (
	"errors"
	"testing"

	"ywbridge/internal/faults"
	"ywbridge/internal/ident"
)

func TestParseMarker(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ScID:3", "ScID:3", true},
		{"ChID:12|region", "ChID:12", true},
		{"file:///home/a/novel_manuscript.odt#ScID:7%7Cregion", "ScID:7", true},
		{"[ScID:41]", "ScID:41", true},
		{"CrID:", "", false},
		{"Scene 4", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, ok := ident.ParseMarker(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseMarker(%q) ok=%v, want %v", tt.in, ok, tt.ok)
			}
			if ok && m.String() != tt.want {
				t.Fatalf("ParseMarker(%q) = %s, want %s", tt.in, m, tt.want)
			}
		})
	}
}

func TestParseSub(t *testing.T) {
	name := ident.Sub(ident.KindCharacter, "bio", "4")
	if name != "CrID_bio:4" {
		t.Fatalf("unexpected sub name %q", name)
	}
	m, part, ok := ident.ParseSub(name)
	if !ok || part != "bio" || m.String() != "CrID:4" {
		t.Fatalf("ParseSub(%q) = %v %q %v", name, m, part, ok)
	}
}

func TestAllocatorReturnsSmallestUnused(t *testing.T) {
	a := ident.NewAllocator("1", "2", "4", "junk")
	if got := a.Next(); got != "3" {
		t.Fatalf("expected 3, got %s", got)
	}
	if got := a.Next(); got != "5" {
		t.Fatalf("expected 5, got %s", got)
	}
}

func TestAllocatorNeverReusesRetired(t *testing.T) {
	a := ident.NewAllocator("1", "2")
	a.Retire("2")
	if got := a.Next(); got != "3" {
		t.Fatalf("retired identifier must stay blocked, got %s", got)
	}
	if a.Reserve("1") {
		t.Fatal("expected duplicate reserve to fail")
	}
	if a.Reserve("07") {
		t.Fatal("expected leading-zero identifier to be rejected")
	}
}

func TestTableClaim(t *testing.T) {
	ch1 := ident.New(ident.KindChapter, "1")
	ch2 := ident.New(ident.KindChapter, "2")
	sc1 := ident.New(ident.KindScene, "1")
	sc2 := ident.New(ident.KindScene, "2")
	sc3 := ident.New(ident.KindScene, "3")

	newTable := func() *ident.Table {
		tbl := ident.NewTable()
		tbl.Register(ch1, ident.Marker{}, 0)
		tbl.Register(ch2, ident.Marker{}, 1)
		tbl.Register(sc1, ch1, 0)
		tbl.Register(sc2, ch1, 1)
		tbl.Register(sc3, ch2, 0)
		return tbl
	}

	t.Run("in order", func(t *testing.T) {
		tbl := newTable()
		for _, step := range []struct{ m, parent ident.Marker }{{sc1, ch1}, {sc2, ch1}, {sc3, ch2}} {
			if err := tbl.Claim(step.m, step.parent); err != nil {
				t.Fatalf("Claim(%s): %v", step.m, err)
			}
		}
		if len(tbl.Unclaimed(ident.KindScene)) != 0 {
			t.Fatal("expected every scene claimed")
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		tbl := newTable()
		_ = tbl.Claim(sc1, ch1)
		if err := tbl.Claim(sc1, ch1); !errors.Is(err, faults.ErrMarkerIntegrity) {
			t.Fatalf("expected integrity error, got %v", err)
		}
	})

	t.Run("foreign chapter", func(t *testing.T) {
		tbl := newTable()
		if err := tbl.Claim(sc3, ch1); !errors.Is(err, faults.ErrMarkerIntegrity) {
			t.Fatalf("expected integrity error, got %v", err)
		}
	})

	t.Run("reordered", func(t *testing.T) {
		tbl := newTable()
		_ = tbl.Claim(sc2, ch1)
		if err := tbl.Claim(sc1, ch1); !errors.Is(err, faults.ErrMarkerIntegrity) {
			t.Fatalf("expected integrity error, got %v", err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		tbl := newTable()
		err := tbl.Claim(ident.New(ident.KindScene, "99"), ch1)
		if !errors.Is(err, faults.ErrUnknownIdentifier) {
			t.Fatalf("expected unknown identifier, got %v", err)
		}
	})
}
