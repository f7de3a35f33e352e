package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/needles/config"
	"github.com/pthm-cable/needles/page"
	"github.com/pthm-cable/needles/systems"
	"github.com/pthm-cable/needles/telemetry"
)

// fakeHost is a scriptable Host backed by a page model and a recording surface.
type fakeHost struct {
	surface systems.Surface
	page    *page.Page
	width   float64
	height  float64
	ratio   float64
	reduced bool
	now     time.Duration
}

func (h *fakeHost) Surface() systems.Surface     { return h.surface }
func (h *fakeHost) Viewport() (float64, float64) { return h.width, h.height }
func (h *fakeHost) PixelRatio() float64          { return h.ratio }
func (h *fakeHost) ReducedMotion() bool          { return h.reduced }
func (h *fakeHost) Now() time.Duration           { return h.now }
func (h *fakeHost) Geometry() systems.PageGeometry {
	if h.page == nil {
		return nil
	}
	return h.page
}

// scalingRecorder records SetScale calls on top of strokes.
type scalingRecorder struct {
	systems.SegmentRecorder
	ratio float64
	calls int
}

func (s *scalingRecorder) SetScale(width, height, ratio float64) {
	s.ratio = ratio
	s.calls++
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func newTestHost(cfg *config.Config) *fakeHost {
	return &fakeHost{
		surface: &systems.SegmentRecorder{},
		page:    page.New(cfg, 1280, 800),
		width:   1280,
		height:  800,
		ratio:   1,
	}
}

func newTestController(cfg *config.Config, host *fakeHost, opts Options) *Controller {
	rng := rand.New(rand.NewSource(7))
	noise := systems.NewSimplexNoise(systems.NewPermutationTable(rng))
	return NewController(host, cfg, noise, rng, opts)
}

// frame advances the host clock and runs one presented frame.
func frame(c *Controller, h *fakeHost, now time.Duration) systems.FrameResult {
	h.now = now
	res := c.Frame(now)
	c.Present()
	return res
}

func TestStartReducedMotion(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	host.reduced = true
	c := newTestController(cfg, host, Options{})

	if err := c.Start(); !errors.Is(err, ErrReducedMotion) {
		t.Fatalf("expected ErrReducedMotion, got %v", err)
	}
	if c.Running() || c.Field().Len() != 0 {
		t.Error("controller should not initialize under reduced motion")
	}
	if host.page.Observers() != 0 {
		t.Error("no observer should be registered")
	}

	res := frame(c, host, 16*time.Millisecond)
	if res.Total != 0 || len(host.surface.(*systems.SegmentRecorder).Segments) != 0 {
		t.Error("stopped controller must not draw")
	}
}

func TestStartWithoutSurface(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	host.surface = nil
	c := newTestController(cfg, host, Options{})

	if err := c.Start(); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
	if c.Running() {
		t.Error("controller should not run without a surface")
	}
	// Events on a stopped controller are ignored
	c.OnResize()
	c.OnScroll()
	if r, l := c.PendingRebuilds(); r || l {
		t.Error("no rebuilds should be armed")
	}
}

func TestStartBuildsGridAndLayout(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	c := newTestController(cfg, host, Options{})

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Field().Len() == 0 {
		t.Fatal("expected needles after start")
	}
	if w, h := c.Field().Size(); w != 1280 || h != 800 {
		t.Errorf("grid sized %vx%v, want 1280x800", w, h)
	}
	if c.Layout().StartY != cfg.Page.HeroHeight {
		t.Errorf("band starts at %v, want hero bottom %v", c.Layout().StartY, cfg.Page.HeroHeight)
	}
	if len(c.Layout().Blocked) != cfg.Page.CardCount {
		t.Errorf("expected %d blocked rects, got %d", cfg.Page.CardCount, len(c.Layout().Blocked))
	}
	if host.page.Observers() != 1 {
		t.Errorf("expected one layout observer, got %d", host.page.Observers())
	}

	// Second start is a no-op
	if err := c.Start(); err != nil {
		t.Errorf("second Start: %v", err)
	}
	if host.page.Observers() != 1 {
		t.Error("second Start must not subscribe again")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	c := newTestController(cfg, host, Options{})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	c.OnResize()
	c.OnScroll()
	c.Stop()
	c.Stop()

	if c.Running() {
		t.Error("controller still running after Stop")
	}
	if r, l := c.PendingRebuilds(); r || l {
		t.Errorf("pending rebuilds after Stop: resize=%v layout=%v", r, l)
	}
	if host.page.Observers() != 0 {
		t.Errorf("observer not released, %d remain", host.page.Observers())
	}

	rec := host.surface.(*systems.SegmentRecorder)
	if res := frame(c, host, time.Second); res.Total != 0 || rec.Clears != 0 {
		t.Error("stopped controller must not draw")
	}

	// Layout changes after stop reach nobody
	host.page.ToggleCard(0)
	if _, l := c.PendingRebuilds(); l {
		t.Error("layout rebuild armed after Stop")
	}
}

func TestResizeDebounce(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	var windows []telemetry.WindowStats
	cfg.Telemetry.StatsWindow = 1
	c := newTestController(cfg, host, Options{StatsCallback: func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	}})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	// A burst of resizes coalesces into one rebuild 200ms after the last
	host.width = 1100
	host.now = 0
	c.OnResize()
	host.width = 1000
	host.now = 100 * time.Millisecond
	c.OnResize()

	frame(c, host, 250*time.Millisecond)
	if w, _ := c.Field().Size(); w != 1280 {
		t.Fatalf("resized before the debounce elapsed (width %v)", w)
	}

	frame(c, host, 300*time.Millisecond)
	if w, _ := c.Field().Size(); w != 1000 {
		t.Fatalf("expected grid rebuilt at width 1000, got %v", w)
	}
	if _, l := c.PendingRebuilds(); !l {
		t.Fatal("resize should schedule a layout rebuild")
	}

	before := c.Layout()
	frame(c, host, 389*time.Millisecond)
	if c.Layout() != before {
		t.Error("layout rebuilt before its debounce elapsed")
	}
	frame(c, host, 390*time.Millisecond)
	if c.Layout() == before {
		t.Error("layout not rebuilt after resize")
	}

	var resizes, rebuilds int
	for _, ws := range windows {
		resizes += ws.Resizes
		rebuilds += ws.LayoutRebuilds
	}
	if resizes != 1 || rebuilds != 1 {
		t.Errorf("telemetry counted %d resizes and %d layout rebuilds, want 1 and 1", resizes, rebuilds)
	}
}

func TestLayoutNotificationRebuildsZone(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	c := newTestController(cfg, host, Options{})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	first := c.Layout().Blocked[0]
	host.now = time.Second
	host.page.ToggleCard(0)
	if _, l := c.PendingRebuilds(); !l {
		t.Fatal("layout change should arm a rebuild")
	}

	frame(c, host, time.Second+50*time.Millisecond)
	if c.Layout().Blocked[0] != first {
		t.Error("layout rebuilt before its debounce elapsed")
	}
	frame(c, host, time.Second+90*time.Millisecond)
	grown := c.Layout().Blocked[0]
	if math.Abs((grown.Bottom-grown.Top)-cfg.Page.CardExpanded) > 1e-9 {
		t.Errorf("expanded card height %v, want %v", grown.Bottom-grown.Top, cfg.Page.CardExpanded)
	}
}

func TestScrollRebuildsZone(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	c := newTestController(cfg, host, Options{})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	before := c.Layout()

	host.page.SetScroll(200)
	host.now = 0
	c.OnScroll()
	host.now = 60 * time.Millisecond
	c.OnScroll()

	frame(c, host, 100*time.Millisecond)
	if c.Layout() != before {
		t.Error("scroll burst should restart the layout debounce")
	}
	frame(c, host, 150*time.Millisecond)
	after := c.Layout()
	if after == before {
		t.Fatal("layout not rebuilt after scroll")
	}
	// Absolute coordinates do not move with scroll
	if after.StartY != before.StartY || after.Blocked[0] != before.Blocked[0] {
		t.Errorf("absolute layout changed with scroll: %+v vs %+v", after, before)
	}
}

func TestPointerEvents(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	c := newTestController(cfg, host, Options{})

	c.OnPointerMove(10, 20)
	if p := c.Pointer(); !p.Active || p.X != 10 || p.Y != 20 {
		t.Errorf("unexpected pointer %+v", p)
	}
	c.OnPointerLeave()
	if c.Pointer().Active {
		t.Error("pointer still active after leave")
	}

	c.OnTouchMove(nil)
	if c.Pointer().Active {
		t.Error("empty touch list should be ignored")
	}
	c.OnTouchMove([]TouchPoint{{X: 5, Y: 6}, {X: 100, Y: 100}})
	if p := c.Pointer(); !p.Active || p.X != 5 || p.Y != 6 {
		t.Errorf("touch should follow the first point, got %+v", p)
	}
	c.OnTouchEnd()
	if c.Pointer().Active {
		t.Error("pointer still active after touch end")
	}
}

func TestFrameDrawsZoneOnly(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	c := newTestController(cfg, host, Options{})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	rec := host.surface.(*systems.SegmentRecorder)
	res := frame(c, host, 16*time.Millisecond)

	if rec.Clears != 1 {
		t.Errorf("expected one clear per frame, got %d", rec.Clears)
	}
	if res.Visible == 0 || res.Visible >= res.Total {
		t.Errorf("expected the hero to mask part of the field, visible %d of %d", res.Visible, res.Total)
	}
	if len(rec.Segments) != res.Visible {
		t.Errorf("stroked %d segments for %d visible needles", len(rec.Segments), res.Visible)
	}
	for _, s := range rec.Segments {
		midY := (s.Y0 + s.Y1) / 2
		if midY < cfg.Page.HeroHeight-cfg.Field.LineLength {
			t.Fatalf("segment drawn over the hero at y=%v", midY)
		}
	}
}

func TestFrameWithoutGeometry(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	host.page = nil
	c := newTestController(cfg, host, Options{})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	if !math.IsInf(c.Layout().EndY, 1) || c.Layout().StartY != 0 {
		t.Errorf("expected unbounded layout, got %+v", c.Layout())
	}
	res := frame(c, host, 0)
	if res.Visible != res.Total {
		t.Errorf("every needle should draw without geometry, %d of %d", res.Visible, res.Total)
	}
}

func TestPixelRatioClamped(t *testing.T) {
	cfg := testConfig(t)
	host := newTestHost(cfg)
	surf := &scalingRecorder{}
	host.surface = surf
	host.ratio = 3
	c := newTestController(cfg, host, Options{})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	if c.PixelRatio() != 2 || surf.ratio != 2 {
		t.Errorf("pixel ratio %v (surface %v), want 2", c.PixelRatio(), surf.ratio)
	}
	if surf.calls != 1 {
		t.Errorf("expected one SetScale on start, got %d", surf.calls)
	}
}

func TestTelemetryWindows(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.StatsWindow = 2
	host := newTestHost(cfg)
	var windows []telemetry.WindowStats
	c := newTestController(cfg, host, Options{StatsCallback: func(ws telemetry.WindowStats) {
		windows = append(windows, ws)
	}})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	c.OnPointerMove(640, 700)
	for i := 0; i < 5; i++ {
		frame(c, host, time.Duration(i)*16*time.Millisecond)
	}

	if len(windows) != 2 {
		t.Fatalf("expected 2 closed windows, got %d", len(windows))
	}
	ws := windows[1]
	if ws.WindowEndFrame != 4 || ws.Needles != c.Field().Len() {
		t.Errorf("unexpected window %+v", ws)
	}
	if ws.PointerFrames != 2 || ws.InfluencedMean == 0 {
		t.Errorf("pointer should influence every frame, got %d frames, mean %v", ws.PointerFrames, ws.InfluencedMean)
	}
	if ws.AlphaMean <= cfg.Field.BaseAlpha {
		t.Errorf("pointer should raise mean alpha above base, got %v", ws.AlphaMean)
	}
}

func TestPerfPhasesAndBudget(t *testing.T) {
	cfg := testConfig(t)
	cfg.Screen.TargetFPS = 50
	host := newTestHost(cfg)
	c := newTestController(cfg, host, Options{})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		host.now = time.Duration(i) * 20 * time.Millisecond
		c.Frame(host.now)
		c.Phase(telemetry.PhasePage)
		time.Sleep(100 * time.Microsecond)
		c.Phase(telemetry.PhaseHUD)
		c.Present()
	}

	s := c.PerfStats()
	if s.Frames != 3 {
		t.Errorf("expected 3 timed frames, got %d", s.Frames)
	}
	if s.Budget != 20*time.Millisecond {
		t.Errorf("expected 20ms budget at 50 fps, got %v", s.Budget)
	}
	if s.PhaseMean[telemetry.PhaseField] <= 0 || s.PhaseMean[telemetry.PhasePage] < 100*time.Microsecond {
		t.Errorf("expected field and page phases timed, got %v", s.PhaseMean)
	}
}
