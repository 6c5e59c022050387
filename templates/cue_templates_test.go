package templates

import (
	"context"
	"slices"
	"testing"

	"github.com/zenibako/cuesheet/cuesheet"
)

func TestNewCueTemplate(t *testing.T) {
	store := cuesheet.NewStore([]cuesheet.Cue{
		{ID: "a", Number: 4, Page: 1, Type: cuesheet.CueTypeLX},
	}, cuesheet.DefaultSettings(), nil)

	tmpl := NewCueTemplate(store, 0)
	if tmpl.Number != 5 || tmpl.Label != "Cue 5" {
		t.Errorf("expected Cue 5, got %d %q", tmpl.Number, tmpl.Label)
	}
	if tmpl.Page != 1 {
		t.Errorf("page should be at least 1, got %d", tmpl.Page)
	}
	if tmpl.Type != cuesheet.CueTypeLX || tmpl.Color != "blue" {
		t.Errorf("unexpected defaults %s %s", tmpl.Type, tmpl.Color)
	}

	tmpl.Type = cuesheet.CueTypeSFX
	tmpl.Page = 3
	c, err := store.Add(context.Background(), tmpl.Draft())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if c.Number != 5 || c.Page != 3 || c.Type != cuesheet.CueTypeSFX || c.Label != "Cue 5" {
		t.Errorf("unexpected cue %+v", c)
	}
	if c.Position != (cuesheet.Position{X: 50, Y: 50}) {
		t.Errorf("form cues start centred, got %+v", c.Position)
	}
}

func TestLookupSwatch(t *testing.T) {
	if sw, ok := LookupSwatch("green"); !ok || sw.Hex != "#22C55E" {
		t.Errorf("expected green swatch, got %+v", sw)
	}
	if sw, ok := LookupSwatch("#ec4899"); !ok || sw.Name != "Pink" {
		t.Errorf("expected pink swatch, got %+v", sw)
	}
	if _, ok := LookupSwatch("teal"); ok {
		t.Error("teal is not in the palette")
	}
}

func TestRandomProjectIcon(t *testing.T) {
	for range 20 {
		if icon := RandomProjectIcon(); !slices.Contains(ProjectIcons, icon) {
			t.Fatalf("unexpected icon %q", icon)
		}
	}
}
