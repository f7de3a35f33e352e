// Package app hosts the field in a raylib window behind a scrollable page.
package app

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/needles/config"
	"github.com/pthm-cable/needles/game"
	"github.com/pthm-cable/needles/page"
	"github.com/pthm-cable/needles/renderer"
	"github.com/pthm-cable/needles/systems"
	"github.com/pthm-cable/needles/telemetry"
	"github.com/pthm-cable/needles/ui"
)

const controlsLegend = "Wheel/PgUp/PgDn: scroll | Click card: expand | Space: field | Z/R/P: debug | C/H: page/HUD | Tab: controls"

// Options configures a windowed run.
type Options struct {
	Seed          int64
	ReducedMotion bool
	Telemetry     game.Options
}

// Game is the windowed host: page model, raylib surface and debug chrome
// around one field controller.
type Game struct {
	cfg  *config.Config
	page *page.Page
	host *game.PageHost
	ctrl *game.Controller

	surface      *renderer.Surface
	pageRenderer *renderer.PageRenderer
	zoneOverlay  *renderer.ZoneOverlay

	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel

	background rl.Color
	touching   bool
}

// NewGame builds the window host. The raylib window must already be open.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	noise, err := systems.NewNoiseSource(cfg.Noise.Backend, rng)
	if err != nil {
		return nil, fmt.Errorf("creating noise source: %w", err)
	}

	bg := color.RGBA{R: cfg.Screen.Background[0], G: cfg.Screen.Background[1], B: cfg.Screen.Background[2], A: 255}
	w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())

	g := &Game{
		cfg:          cfg,
		page:         page.New(cfg, w, h),
		surface:      renderer.NewSurface(bg),
		pageRenderer: renderer.NewPageRenderer(),
		zoneOverlay:  renderer.NewZoneOverlay(),
		overlays:     ui.NewOverlayRegistry(),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(10, 10, 220),
		perfPanel:    ui.NewPerfPanel(int32(w)-270, 132, 260),
		background:   bg,
	}
	g.host = &game.PageHost{
		Page:          g.page,
		Drawable:      g.surface,
		Ratio:         pixelRatio(),
		PrefersStatic: opts.ReducedMotion,
		Clock:         clock,
	}
	g.ctrl = game.NewController(g.host, cfg, noise, rng, opts.Telemetry)
	g.startField()
	return g, nil
}

// startField starts the controller. Failures leave the page without animation.
func (g *Game) startField() {
	err := g.ctrl.Start()
	switch {
	case err == nil:
	case errors.Is(err, game.ErrReducedMotion), errors.Is(err, game.ErrNoSurface):
		slog.Info("running without field", "reason", err)
	default:
		slog.Error("field start failed", "error", err)
	}
}

// toggleField stops a running field or starts a stopped one.
func (g *Game) toggleField() {
	if g.ctrl.Running() {
		g.ctrl.Stop()
		return
	}
	g.startField()
}

// Update polls input and forwards it to the page and the controller.
func (g *Game) Update() {
	g.handleInput()
}

// Draw renders one frame: field, page, overlays, HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()

	if g.ctrl.Running() {
		g.ctrl.Frame(clock())
	} else {
		rl.ClearBackground(g.background)
	}

	g.ctrl.Phase(telemetry.PhasePage)
	if g.overlays.IsEnabled(ui.OverlayPage) {
		g.pageRenderer.Draw(g.page)
	}

	g.ctrl.Phase(telemetry.PhaseHUD)
	g.drawOverlays()
	g.drawUI()

	rl.EndDrawing()
	g.ctrl.Present()
}

// drawOverlays draws the debug overlays that sit over the page.
func (g *Game) drawOverlays() {
	w, h := g.page.Viewport()
	if g.overlays.IsEnabled(ui.OverlayZone) {
		g.zoneOverlay.DrawZone(g.ctrl.Layout(), g.page.ScrollY(), w, h)
	}
	if g.overlays.IsEnabled(ui.OverlayPointer) {
		g.zoneOverlay.DrawPointer(g.ctrl.Pointer(), g.cfg.Pointer.Radius)
	}
}

// drawUI draws the HUD, perf panel and controls.
func (g *Game) drawUI() {
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		last := g.ctrl.LastFrame()
		g.hud.Draw(ui.HUDData{
			Title:        "Needles",
			Needles:      g.ctrl.Field().Len(),
			Visible:      last.Visible,
			Influenced:   last.Influenced,
			FPS:          rl.GetFPS(),
			Running:      g.ctrl.Running(),
			ScrollY:      g.page.ScrollY(),
			PixelRatio:   g.ctrl.PixelRatio(),
			ScreenWidth:  sw,
			ScreenHeight: sh,
			Overlays:     g.overlays.EnabledOverlays(),
		})
		g.hud.DrawControls(sw, sh, controlsLegend)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(sw-270, 132)
		g.perfPanel.Draw(g.ctrl.PerfStats())
	}

	if g.controls.Draw(g.overlays, g.ctrl.Running()) {
		g.toggleField()
	}
}

// Unload stops the field and releases the layout subscription.
func (g *Game) Unload() {
	g.ctrl.Stop()
}

// clock reads raylib's monotonic timer.
func clock() time.Duration {
	return time.Duration(rl.GetTime() * float64(time.Second))
}

// pixelRatio reads the window's DPI scale.
func pixelRatio() float64 {
	return float64(rl.GetWindowScaleDPI().X)
}
