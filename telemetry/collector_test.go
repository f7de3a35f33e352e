package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(4)

	samples := []FrameSample{
		{Needles: 100, Visible: 40, Influenced: 0, MeanAlpha: 0.045, Update: 100 * time.Microsecond},
		{Needles: 100, Visible: 60, Influenced: 10, MeanAlpha: 0.1, Update: 200 * time.Microsecond},
		{Needles: 100, Visible: 50, Influenced: 0, MeanAlpha: 0.045, Update: 300 * time.Microsecond},
	}
	for i, s := range samples {
		if _, done := c.Record(s); done {
			t.Fatalf("window closed early at frame %d", i)
		}
	}
	c.RecordResize()
	c.RecordLayoutRebuild()
	c.RecordLayoutRebuild()

	ws, done := c.Record(FrameSample{Needles: 120, Visible: 50, Influenced: 6, MeanAlpha: 0.08, Update: 400 * time.Microsecond, TimestampMS: 64})
	if !done {
		t.Fatal("expected window to close on the 4th frame")
	}

	if ws.WindowStartFrame != 0 || ws.WindowEndFrame != 4 {
		t.Errorf("unexpected window bounds %d..%d", ws.WindowStartFrame, ws.WindowEndFrame)
	}
	if ws.Needles != 120 || ws.TimestampMS != 64 {
		t.Errorf("expected window-end needles 120 at 64ms, got %d at %v", ws.Needles, ws.TimestampMS)
	}
	if ws.VisibleMean != 50 || ws.VisibleMin != 40 || ws.VisibleMax != 60 {
		t.Errorf("visible mean/min/max = %v/%d/%d, want 50/40/60", ws.VisibleMean, ws.VisibleMin, ws.VisibleMax)
	}
	if ws.InfluencedMean != 4 || ws.PointerFrames != 2 {
		t.Errorf("influenced mean %v, pointer frames %d", ws.InfluencedMean, ws.PointerFrames)
	}
	if math.Abs(ws.UpdateMeanUS-250) > 1e-9 {
		t.Errorf("update mean = %v, want 250", ws.UpdateMeanUS)
	}
	if math.Abs(ws.UpdateP50US-250) > 1e-9 {
		t.Errorf("update p50 = %v, want 250", ws.UpdateP50US)
	}
	if ws.Resizes != 1 || ws.LayoutRebuilds != 2 {
		t.Errorf("resizes %d, layout rebuilds %d", ws.Resizes, ws.LayoutRebuilds)
	}

	// Next window starts clean
	ws, _ = c.Record(FrameSample{Visible: 7})
	if ws.Resizes != 0 {
		t.Error("partial window should not report")
	}
	if c.Frame() != 5 {
		t.Errorf("expected 5 frames recorded, got %d", c.Frame())
	}
}

func TestCollectorSingleFrameWindow(t *testing.T) {
	c := NewCollector(0)

	ws, done := c.Record(FrameSample{Visible: 3, MeanAlpha: 0.2})
	if !done {
		t.Fatal("expected every frame to close a window")
	}
	if ws.AlphaStd != 0 || ws.AlphaMean != 0.2 {
		t.Errorf("single frame alpha mean/std = %v/%v", ws.AlphaMean, ws.AlphaStd)
	}
	if ws.VisibleMin != 3 || ws.VisibleMax != 3 {
		t.Errorf("single frame min/max = %d/%d", ws.VisibleMin, ws.VisibleMax)
	}
}
