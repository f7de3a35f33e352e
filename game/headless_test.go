package game

import (
	"context"
	"errors"
	"testing"

	"github.com/pthm-cable/needles/telemetry"
)

func TestHeadlessRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.StatsWindow = 100

	var windows []telemetry.WindowStats
	h, err := NewHeadless(cfg, Options{StatsCallback: func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	}}, 42, false)
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	if err := h.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var last int
	for h.Frame() < 1000 {
		last = h.Step().Visible
	}

	if len(windows) != 10 {
		t.Fatalf("expected 10 stats windows, got %d", len(windows))
	}

	var resizes, rebuilds, pointerFrames int
	for _, ws := range windows {
		resizes += ws.Resizes
		rebuilds += ws.LayoutRebuilds
		pointerFrames += ws.PointerFrames
	}
	if resizes != 1 {
		t.Errorf("expected one debounced resize, got %d", resizes)
	}
	// Scrolls every 30 frames settle in 90ms (~6 frames), plus card toggles and the resize
	if rebuilds < 30 {
		t.Errorf("expected layout rebuilds from scrolling, got %d", rebuilds)
	}
	if pointerFrames == 0 {
		t.Error("orbiting pointer never influenced a needle")
	}

	if w, _ := h.Controller().Field().Size(); w != mobileWidth {
		t.Errorf("expected grid rebuilt at mobile width %d, got %v", mobileWidth, w)
	}
	if h.Page().ScrollY() == 0 {
		t.Error("page never scrolled")
	}
	if len(h.Recorder().Segments) != last {
		t.Errorf("recorder holds %d segments, last frame drew %d", len(h.Recorder().Segments), last)
	}
}

func TestHeadlessRunStops(t *testing.T) {
	cfg := testConfig(t)
	h, err := NewHeadless(cfg, Options{}, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}

	if err := h.Run(context.Background(), 50); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.Frame() != 50 {
		t.Errorf("expected 50 frames, got %d", h.Frame())
	}
	if h.Controller().Running() || h.Page().Observers() != 0 {
		t.Error("Run should stop the controller and release the observer")
	}
}

func TestHeadlessRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	h, err := NewHeadless(cfg, Options{}, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if h.Frame() != 0 {
		t.Errorf("cancelled run stepped %d frames", h.Frame())
	}
}

func TestHeadlessReducedMotion(t *testing.T) {
	cfg := testConfig(t)
	h, err := NewHeadless(cfg, Options{}, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Start(); !errors.Is(err, ErrReducedMotion) {
		t.Fatalf("expected ErrReducedMotion, got %v", err)
	}
	if res := h.Step(); res.Total != 0 || len(h.Recorder().Segments) != 0 {
		t.Error("reduced motion run must not draw")
	}
}

func TestHeadlessUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Noise.Backend = "perlin"
	if _, err := NewHeadless(cfg, Options{}, 1, false); err == nil {
		t.Error("expected an error for an unknown noise backend")
	}
}
