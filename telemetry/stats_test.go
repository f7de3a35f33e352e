package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSeriesStats(t *testing.T) {
	values := []float64{10, 2, 8, 4, 6}
	mean, std, p50, p90 := SeriesStats(values)

	if math.Abs(mean-6) > 1e-9 {
		t.Errorf("mean = %v, want 6", mean)
	}
	// Sample standard deviation of 2,4,6,8,10
	if math.Abs(std-math.Sqrt(10)) > 1e-9 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(10))
	}
	if p50 != 6 {
		t.Errorf("p50 = %v, want 6", p50)
	}
	if math.Abs(p90-9.2) > 1e-9 {
		t.Errorf("p90 = %v, want 9.2", p90)
	}

	if _, std, _, _ := SeriesStats([]float64{3}); std != 0 {
		t.Errorf("single sample std = %v, want 0", std)
	}
	if m, _, _, _ := SeriesStats(nil); m != 0 {
		t.Errorf("empty mean = %v, want 0", m)
	}
}
