package systems

import (
	"image/color"
	"math"
)

// LineCap selects how stroke ends are drawn.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
)

// StrokeStyle describes one line stroke.
type StrokeStyle struct {
	Width float64
	Cap   LineCap
	Color color.RGBA // RGB only; A is ignored in favour of Alpha
	Alpha float64    // 0..1
}

// CapArcs returns the outward half-disc of each round cap as [from, to] angles
// in degrees, measured clockwise from +X in screen space. Each arc starts and
// ends on the stroke's end edge, so a cap never overlaps the stroke body.
func CapArcs(x0, y0, x1, y1 float64) (start, end [2]float64) {
	dir := math.Atan2(y1-y0, x1-x0) * 180 / math.Pi
	return [2]float64{dir + 90, dir + 270}, [2]float64{dir - 90, dir + 90}
}

// Surface is the drawable the field strokes needles onto.
// Coordinates are viewport pixels.
type Surface interface {
	Clear(width, height float64)
	StrokeLine(x0, y0, x1, y1 float64, style StrokeStyle)
}

// Segment is one recorded stroke.
type Segment struct {
	X0, Y0, X1, Y1 float64
	Style          StrokeStyle
}

// SegmentRecorder is a Surface that keeps the strokes of the last frame.
// Used by headless runs and tests.
type SegmentRecorder struct {
	Segments []Segment
	Clears   int
}

// Clear drops the strokes recorded so far.
func (r *SegmentRecorder) Clear(width, height float64) {
	r.Segments = r.Segments[:0]
	r.Clears++
}

// StrokeLine records a stroke.
func (r *SegmentRecorder) StrokeLine(x0, y0, x1, y1 float64, style StrokeStyle) {
	r.Segments = append(r.Segments, Segment{X0: x0, Y0: y0, X1: x1, Y1: y1, Style: style})
}
