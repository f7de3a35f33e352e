package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()

	got := reg.EnabledOverlays()
	if len(got) != 2 || got[0] != OverlayPage || got[1] != OverlayHUD {
		t.Errorf("expected page and HUD enabled by default, got %v", got)
	}
	if reg.IsEnabled(OverlayZone) {
		t.Error("zone overlay should start disabled")
	}
}

func TestOverlayToggle(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.Toggle(OverlayZone) || !reg.IsEnabled(OverlayZone) {
		t.Fatal("toggle should enable the zone overlay")
	}
	if reg.Toggle(OverlayZone) {
		t.Error("second toggle should disable it")
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay toggled on")
	}

	reg.Toggle(OverlayHUD)
	if got := reg.EnabledOverlays(); len(got) != 1 || got[0] != OverlayPage {
		t.Errorf("expected only the page overlay after hiding the HUD, got %v", got)
	}
}

func TestOverlayKeys(t *testing.T) {
	reg := NewOverlayRegistry()

	id, on, ok := reg.HandleKeyPress(rl.KeyZ)
	if !ok || id != OverlayZone || !on {
		t.Errorf("Z should enable the zone overlay, got %q %v %v", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyQ); ok {
		t.Error("unbound key reported a toggle")
	}
}

func TestOverlayCategories(t *testing.T) {
	reg := NewOverlayRegistry()

	cats := reg.Categories()
	if len(cats) != 2 || cats[0] != "page" || cats[1] != "debug" {
		t.Errorf("unexpected categories %v", cats)
	}
	if n := len(reg.ByCategory("debug")); n != 3 {
		t.Errorf("expected 3 debug overlays, got %d", n)
	}
	if n := len(reg.ByCategory("page")); n != 2 {
		t.Errorf("expected 2 page overlays, got %d", n)
	}
}

func TestJoinOverlays(t *testing.T) {
	if got := joinOverlays(nil); got != "none" {
		t.Errorf("expected none, got %q", got)
	}
	if got := joinOverlays(NewOverlayRegistry().EnabledOverlays()); got != "page hud" {
		t.Errorf("expected default overlays listed, got %q", got)
	}
}
