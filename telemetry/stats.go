package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int     `csv:"-"`
	WindowEndFrame   int     `csv:"window_end"`
	TimestampMS      float64 `csv:"timestamp_ms"`

	// Field size at window end
	Needles int `csv:"needles"`

	// Visible needles per frame
	VisibleMean float64 `csv:"visible_mean"`
	VisibleMin  int     `csv:"visible_min"`
	VisibleMax  int     `csv:"visible_max"`

	// Pointer-influenced needles per frame
	InfluencedMean float64 `csv:"influenced_mean"`
	PointerFrames  int     `csv:"pointer_frames"` // frames with any influenced needle

	// Drawn alpha, averaged per frame
	AlphaMean float64 `csv:"alpha_mean"`
	AlphaStd  float64 `csv:"alpha_std"`

	// Field update cost
	UpdateMeanUS float64 `csv:"update_mean_us"`
	UpdateP50US  float64 `csv:"update_p50_us"`
	UpdateP90US  float64 `csv:"update_p90_us"`

	// Debounced rebuilds that fired during the window
	Resizes        int `csv:"resizes"`
	LayoutRebuilds int `csv:"layout_rebuilds"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SeriesStats returns the mean, standard deviation and 50th/90th percentiles of values.
// values is sorted in place.
func SeriesStats(values []float64) (mean, std, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean, std = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	sort.Float64s(values)
	return mean, std, Percentile(values, 0.5), Percentile(values, 0.9)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", s.WindowEndFrame),
		slog.Int("needles", s.Needles),
		slog.Float64("visible_mean", s.VisibleMean),
		slog.Float64("influenced_mean", s.InfluencedMean),
		slog.Float64("alpha_mean", s.AlphaMean),
		slog.Float64("update_p90_us", s.UpdateP90US),
		slog.Int("resizes", s.Resizes),
		slog.Int("layout_rebuilds", s.LayoutRebuilds),
	)
}

// LogStats logs the window at info level.
func (s WindowStats) LogStats() {
	slog.Info("field", "stats", s)
}
