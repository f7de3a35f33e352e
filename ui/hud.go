package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/needles/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Needles      int
	Visible      int
	Influenced   int
	FPS          int32
	Running      bool
	ScrollY      float64
	PixelRatio   float64
	ScreenWidth  int32
	ScreenHeight int32
	Overlays     []OverlayID
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top right corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	width := int32(260)
	x := data.ScreenWidth - width - 10
	y := int32(10)

	r.DrawPanel(x, y, width, 128)
	x += r.Theme.Padding
	y += r.Theme.Padding

	rl.DrawText(data.Title, x, y, 16, r.Theme.Title)
	y += 22

	y = r.DrawLabelValue(x, y, "Needles", fmt.Sprintf("%d", data.Needles))
	y = r.DrawLabelValue(x, y, "Drawn", fmt.Sprintf("%d (%d near pointer)", data.Visible, data.Influenced))
	y = r.DrawLabelValue(x, y, "Viewport", fmt.Sprintf("%dx%d @%.1fx", data.ScreenWidth, data.ScreenHeight, data.PixelRatio))
	y = r.DrawLabelValue(x, y, "Scroll", fmt.Sprintf("%.0f", data.ScrollY))
	y = r.DrawLabelValue(x, y, "Overlays", joinOverlays(data.Overlays))

	status, color := "Running", r.Theme.Running
	if !data.Running {
		status, color = "Stopped", r.Theme.Stopped
	}
	rl.DrawText(fmt.Sprintf("%s | FPS: %d", status, data.FPS), x, y, r.Theme.TextSize, color)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.renderer.Theme.Legend)
}

// PerfPanel renders the per-phase frame timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// phaseLabels titles the perf panel bars in frame order.
var phaseLabels = [telemetry.NumPhases]string{"Timers", "Field", "Page", "HUD"}

// Draw renders step timing, budget use and per-phase shares.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	rows := int32(telemetry.NumPhases)
	height := r.Theme.Padding*2 + r.Theme.Line*3 + rows*(r.Theme.Line+2)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	barWidth := p.width - r.Theme.Padding*2
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Frame Timing")
	y = r.DrawLabelValue(x, y, "Step", fmt.Sprintf("%dus p95 %dus ±%dus",
		stats.MeanStep.Microseconds(), stats.P95Step.Microseconds(), stats.Jitter.Microseconds()))
	if stats.Budget > 0 {
		y = r.DrawBar(x, y, "Over budget", float32(stats.OverBudget), 0.05, barWidth)
	} else {
		y += r.Theme.Line + 2
	}

	for ph := telemetry.Phase(0); ph < telemetry.NumPhases; ph++ {
		y = r.DrawBar(x, y, phaseLabels[ph], float32(stats.PhaseShare[ph]), 0.5, barWidth)
	}
}

func joinOverlays(ids []OverlayID) string {
	if len(ids) == 0 {
		return "none"
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, " ")
}
