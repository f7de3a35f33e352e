package telemetry

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// FrameSample is one frame's field result.
type FrameSample struct {
	TimestampMS float64
	Needles     int
	Visible     int
	Influenced  int
	MeanAlpha   float64
	Update      time.Duration
}

// Collector accumulates frame samples and produces WindowStats every window.
type Collector struct {
	windowFrames int

	frame            int
	windowStartFrame int

	// Per-frame series for the current window
	visible    []float64
	influenced []float64
	alpha      []float64
	updateUS   []float64

	visibleMin, visibleMax int
	pointerFrames          int
	resizes                int
	layoutRebuilds         int
}

// NewCollector creates a collector that closes a window every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: windowFrames,
		visible:      make([]float64, 0, windowFrames),
		influenced:   make([]float64, 0, windowFrames),
		alpha:        make([]float64, 0, windowFrames),
		updateUS:     make([]float64, 0, windowFrames),
	}
}

// RecordResize counts a debounced grid rebuild.
func (c *Collector) RecordResize() {
	c.resizes++
}

// RecordLayoutRebuild counts a debounced layout map rebuild.
func (c *Collector) RecordLayoutRebuild() {
	c.layoutRebuilds++
}

// Frame returns the number of frames recorded so far.
func (c *Collector) Frame() int {
	return c.frame
}

// Record adds a frame sample. When the sample closes a window it returns the
// window's stats and true.
func (c *Collector) Record(s FrameSample) (WindowStats, bool) {
	if len(c.visible) == 0 || s.Visible < c.visibleMin {
		c.visibleMin = s.Visible
	}
	if s.Visible > c.visibleMax {
		c.visibleMax = s.Visible
	}
	if s.Influenced > 0 {
		c.pointerFrames++
	}
	c.visible = append(c.visible, float64(s.Visible))
	c.influenced = append(c.influenced, float64(s.Influenced))
	c.alpha = append(c.alpha, s.MeanAlpha)
	c.updateUS = append(c.updateUS, float64(s.Update)/float64(time.Microsecond))
	c.frame++

	if c.frame-c.windowStartFrame < c.windowFrames {
		return WindowStats{}, false
	}

	alphaMean, alphaStd, _, _ := SeriesStats(c.alpha)
	updateMean, _, updateP50, updateP90 := SeriesStats(c.updateUS)
	ws := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   c.frame,
		TimestampMS:      s.TimestampMS,
		Needles:          s.Needles,
		VisibleMean:      stat.Mean(c.visible, nil),
		VisibleMin:       c.visibleMin,
		VisibleMax:       c.visibleMax,
		InfluencedMean:   stat.Mean(c.influenced, nil),
		PointerFrames:    c.pointerFrames,
		AlphaMean:        alphaMean,
		AlphaStd:         alphaStd,
		UpdateMeanUS:     updateMean,
		UpdateP50US:      updateP50,
		UpdateP90US:      updateP90,
		Resizes:          c.resizes,
		LayoutRebuilds:   c.layoutRebuilds,
	}

	c.reset()
	return ws, true
}

// reset starts a new window.
func (c *Collector) reset() {
	c.windowStartFrame = c.frame
	c.visible = c.visible[:0]
	c.influenced = c.influenced[:0]
	c.alpha = c.alpha[:0]
	c.updateUS = c.updateUS[:0]
	c.visibleMin, c.visibleMax = 0, 0
	c.pointerFrames = 0
	c.resizes = 0
	c.layoutRebuilds = 0
}
