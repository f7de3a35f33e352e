package game

import (
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/needles/config"
	"github.com/pthm-cable/needles/systems"
	"github.com/pthm-cable/needles/telemetry"
)

// Start failures. The field is decorative, so callers log these and carry on
// without animation.
var (
	ErrReducedMotion = errors.New("reduced motion preferred")
	ErrNoSurface     = errors.New("no drawable surface")
)

// maxPixelRatio caps the device pixel ratio applied to the surface.
const maxPixelRatio = 2.0

// Host is the page hosting the field: its drawable, viewport, geometry and preferences.
type Host interface {
	// Surface returns the drawable, or nil when there is none.
	Surface() systems.Surface
	Viewport() (width, height float64)
	PixelRatio() float64
	// Geometry may return nil, in which case the zone admits everything.
	Geometry() systems.PageGeometry
	ReducedMotion() bool
	// Now is the monotonic clock used for debounce deadlines.
	Now() time.Duration
}

// Scaler is implemented by surfaces that size their backing store by pixel ratio.
type Scaler interface {
	SetScale(width, height, ratio float64)
}

// TouchPoint is one active touch in viewport pixels.
type TouchPoint struct {
	X, Y float64
}

// Options configures telemetry for a controller.
type Options struct {
	LogStats      bool
	OutputManager *telemetry.OutputManager
	// StatsCallback is called with every closed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Controller wires the field to its host: lifecycle, events, debounced
// rebuilds and the per-frame update. All methods must be called from the
// goroutine driving the frame loop.
type Controller struct {
	host  Host
	cfg   *config.Config
	field *systems.FieldSystem
	zone  *systems.RenderZone

	surface systems.Surface
	pointer systems.PointerState
	width   float64
	height  float64
	ratio   float64

	resizeTimer *systems.Debouncer
	layoutTimer *systems.Debouncer
	unobserve   func()
	running     bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	stepOpen      bool
	last          systems.FrameResult
	lastUpdate    time.Duration
	lastTimestamp float64
}

// NewController creates a stopped controller for host.
func NewController(host Host, cfg *config.Config, noise systems.NoiseSource, rng *rand.Rand, opts Options) *Controller {
	geom := host.Geometry()
	if geom == nil {
		geom = emptyGeometry{}
	}

	c := &Controller{
		host:          host,
		cfg:           cfg,
		field:         systems.NewFieldSystem(cfg, noise, rng),
		zone:          systems.NewRenderZone(geom),
		ratio:         1,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow, frameBudget(cfg.Screen.TargetFPS)),
		outputManager: opts.OutputManager,
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
	}
	c.resizeTimer = systems.NewDebouncer(cfg.Derived.ResizeDebounce, c.applyResize)
	c.layoutTimer = systems.NewDebouncer(cfg.Derived.LayoutDebounce, c.rebuildLayout)
	return c
}

// Start sizes the grid, builds the layout map and subscribes to layout
// notifications when the host offers them. Starting a running controller is a no-op.
func (c *Controller) Start() error {
	if c.running {
		return nil
	}
	if c.host.ReducedMotion() {
		slog.Info("field disabled", "reason", "reduced_motion")
		return ErrReducedMotion
	}
	surf := c.host.Surface()
	if surf == nil {
		slog.Info("field disabled", "reason", "no_surface")
		return ErrNoSurface
	}
	c.surface = surf

	c.resize()
	c.zone.Rebuild()
	if n, ok := c.host.Geometry().(systems.LayoutNotifier); ok {
		c.unobserve = n.Observe(c.OnLayoutChange)
	}
	c.running = true

	slog.Info("field started",
		"width", c.width,
		"height", c.height,
		"pixel_ratio", c.ratio,
		"needles", c.field.Len(),
		"layout_observer", c.unobserve != nil,
	)
	return nil
}

// Stop cancels pending rebuilds, drops the layout subscription and halts frames.
// Safe to call more than once.
func (c *Controller) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.resizeTimer.Cancel()
	c.layoutTimer.Cancel()
	if c.unobserve != nil {
		c.unobserve()
		c.unobserve = nil
	}
	c.pointer.Active = false
	slog.Info("field stopped", "frames", c.collector.Frame())
}

// Running reports whether the controller is started.
func (c *Controller) Running() bool {
	return c.running
}

// OnResize schedules a grid rebuild once resizing settles.
func (c *Controller) OnResize() {
	if !c.running {
		return
	}
	c.resizeTimer.Schedule(c.host.Now())
}

// OnScroll schedules a layout map rebuild.
func (c *Controller) OnScroll() {
	c.scheduleLayout()
}

// OnLayoutChange schedules a layout map rebuild. It is the callback handed to
// the host's layout notifier.
func (c *Controller) OnLayoutChange() {
	c.scheduleLayout()
}

// OnPointerMove records the pointer position and activates attraction.
func (c *Controller) OnPointerMove(x, y float64) {
	c.pointer = systems.PointerState{X: x, Y: y, Active: true}
}

// OnPointerLeave deactivates attraction. The last position is kept.
func (c *Controller) OnPointerLeave() {
	c.pointer.Active = false
}

// OnTouchMove follows the first touch point. An empty touch list is ignored.
func (c *Controller) OnTouchMove(touches []TouchPoint) {
	if len(touches) == 0 {
		return
	}
	c.OnPointerMove(touches[0].X, touches[0].Y)
}

// OnTouchEnd deactivates attraction.
func (c *Controller) OnTouchEnd() {
	c.pointer.Active = false
}

func (c *Controller) scheduleLayout() {
	if !c.running {
		return
	}
	c.layoutTimer.Schedule(c.host.Now())
}

// applyResize runs when the resize debounce fires.
func (c *Controller) applyResize() {
	c.resize()
	c.collector.RecordResize()
	c.layoutTimer.Schedule(c.host.Now())
}

// resize reads the viewport, rescales the surface and lays a fresh grid.
func (c *Controller) resize() {
	c.width, c.height = c.host.Viewport()
	c.ratio = math.Min(c.host.PixelRatio(), maxPixelRatio)
	if c.ratio <= 0 {
		c.ratio = 1
	}
	if s, ok := c.surface.(Scaler); ok {
		s.SetScale(c.width, c.height, c.ratio)
	}
	c.field.Rebuild(c.width, c.height)
	slog.Debug("field resized", "width", c.width, "height", c.height, "needles", c.field.Len())
}

// rebuildLayout runs when the layout debounce fires.
func (c *Controller) rebuildLayout() {
	c.zone.Rebuild()
	c.collector.RecordLayoutRebuild()
}

// Frame runs one animation frame at monotonic time now: due rebuilds fire,
// the surface is cleared and every in-zone needle is updated and stroked.
// Close the frame with Present once the host has drawn everything else.
func (c *Controller) Frame(now time.Duration) systems.FrameResult {
	if !c.running {
		return systems.FrameResult{}
	}
	if c.stepOpen {
		c.perfCollector.EndStep()
	}
	c.perfCollector.StartStep()
	c.stepOpen = true

	c.perfCollector.StartPhase(telemetry.PhaseTimers)
	c.resizeTimer.Poll(now)
	c.layoutTimer.Poll(now)

	c.perfCollector.StartPhase(telemetry.PhaseField)
	timestamp := float64(now) / float64(time.Millisecond)
	start := time.Now()
	c.surface.Clear(c.width, c.height)
	c.last = c.field.Update(timestamp, c.pointer, c.zone, c.surface)
	c.lastUpdate = time.Since(start)
	c.lastTimestamp = timestamp

	return c.last
}

// Phase starts timing a host draw phase inside the current frame.
func (c *Controller) Phase(ph telemetry.Phase) {
	if c.stepOpen {
		c.perfCollector.StartPhase(ph)
	}
}

// Present closes the current frame and records its telemetry.
func (c *Controller) Present() {
	if !c.stepOpen {
		return
	}
	c.perfCollector.EndStep()
	c.perfCollector.RecordFrame()
	c.stepOpen = false

	ws, done := c.collector.Record(telemetry.FrameSample{
		TimestampMS: c.lastTimestamp,
		Needles:     c.last.Total,
		Visible:     c.last.Visible,
		Influenced:  c.last.Influenced,
		MeanAlpha:   c.last.MeanAlpha(),
		Update:      c.lastUpdate,
	})
	if done {
		c.flushTelemetry(ws)
	}
}

// flushTelemetry hands a closed window to the configured sinks.
func (c *Controller) flushTelemetry(ws telemetry.WindowStats) {
	perfStats := c.perfCollector.Stats()

	if c.statsCallback != nil {
		c.statsCallback(ws)
	}
	if c.logStats {
		ws.LogStats()
		perfStats.LogStats()
	}
	if c.outputManager != nil {
		if err := c.outputManager.WriteWindow(ws); err != nil {
			slog.Error("failed to write frames", "error", err)
		}
		if err := c.outputManager.WritePerf(perfStats, ws.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Pointer returns the current pointer state.
func (c *Controller) Pointer() systems.PointerState {
	return c.pointer
}

// Field exposes the needle field.
func (c *Controller) Field() *systems.FieldSystem {
	return c.field
}

// Layout returns the current layout snapshot.
func (c *Controller) Layout() *systems.LayoutMap {
	return c.zone.Layout()
}

// PixelRatio returns the clamped device pixel ratio from the last resize.
func (c *Controller) PixelRatio() float64 {
	return c.ratio
}

// LastFrame returns the result of the most recent frame.
func (c *Controller) LastFrame() systems.FrameResult {
	return c.last
}

// PerfStats returns frame timing over the perf collector's window.
func (c *Controller) PerfStats() telemetry.PerfStats {
	return c.perfCollector.Stats()
}

// PendingRebuilds reports which debounced rebuilds are armed.
func (c *Controller) PendingRebuilds() (resize, layout bool) {
	return c.resizeTimer.Pending(), c.layoutTimer.Pending()
}

// frameBudget is the time one frame may take at fps; zero when fps is unset.
func frameBudget(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// emptyGeometry stands in for a host without page geometry.
type emptyGeometry struct{}

func (emptyGeometry) Hero() (systems.Box, bool)   { return systems.Box{}, false }
func (emptyGeometry) Main() (systems.Box, bool)   { return systems.Box{}, false }
func (emptyGeometry) Footer() (systems.Box, bool) { return systems.Box{}, false }
func (emptyGeometry) Cards() []systems.Box        { return nil }
func (emptyGeometry) ScrollY() float64            { return 0 }
