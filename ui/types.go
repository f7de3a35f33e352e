// Package ui draws the debug chrome over the field: HUD, controls panel and
// overlay toggles.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme is the palette and metrics for debug panels. Panels sit over a light
// page, so they are drawn as translucent ink cards rather than dark slabs.
type Theme struct {
	Panel       rl.Color
	PanelEdge   rl.Color
	Title       rl.Color
	Heading     rl.Color
	Label       rl.Color
	Value       rl.Color
	Track       rl.Color
	Fill        rl.Color
	FillWarn    rl.Color
	Running     rl.Color
	Stopped     rl.Color
	Legend      rl.Color
	Padding     int32
	Line        int32
	LabelWidth  int32
	TrackHeight int32
	TextSize    int32
	HeadingSize int32
}

// DefaultTheme is the ink-on-paper palette used by every panel.
func DefaultTheme() Theme {
	return Theme{
		Panel:       rl.Color{R: 250, G: 248, B: 242, A: 230},
		PanelEdge:   rl.Color{R: 30, G: 30, B: 30, A: 90},
		Title:       rl.Color{R: 20, G: 20, B: 20, A: 255},
		Heading:     rl.Color{R: 70, G: 60, B: 40, A: 255},
		Label:       rl.Color{R: 110, G: 110, B: 110, A: 255},
		Value:       rl.Color{R: 25, G: 25, B: 25, A: 255},
		Track:       rl.Color{R: 225, G: 222, B: 214, A: 255},
		Fill:        rl.Color{R: 60, G: 60, B: 60, A: 255},
		FillWarn:    rl.Color{R: 190, G: 70, B: 50, A: 255},
		Running:     rl.Color{R: 40, G: 130, B: 70, A: 255},
		Stopped:     rl.Color{R: 170, G: 110, B: 20, A: 255},
		Legend:      rl.Color{R: 90, G: 90, B: 90, A: 200},
		Padding:     10,
		Line:        16,
		LabelWidth:  80,
		TrackHeight: 8,
		TextSize:    12,
		HeadingSize: 14,
	}
}
