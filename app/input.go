package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/needles/game"
)

// handleInput processes window, pointer, touch, scroll and keyboard input.
func (g *Game) handleInput() {
	g.handleResize()
	g.handlePointer()
	g.handleScroll()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.toggleField()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	if key := rl.GetKeyPressed(); key != 0 {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", id, "enabled", on)
		}
	}

	// Card clicks expand or collapse; the page notifies the controller
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		if !g.controls.Contains(pos.X, pos.Y) {
			if i := g.page.CardAt(float64(pos.X), float64(pos.Y)); i >= 0 {
				g.page.ToggleCard(i)
			}
		}
	}
}

// handleResize relays the page immediately and lets the controller debounce the grid.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	if cw, ch := g.page.Viewport(); w == cw && h == ch {
		return
	}
	g.page.Resize(w, h)
	g.host.Ratio = pixelRatio()
	g.ctrl.OnResize()
}

// handlePointer feeds touch points or the mouse cursor to the controller.
func (g *Game) handlePointer() {
	if n := rl.GetTouchPointCount(); n > 0 {
		touches := make([]game.TouchPoint, n)
		for i := range touches {
			p := rl.GetTouchPosition(int32(i))
			touches[i] = game.TouchPoint{X: float64(p.X), Y: float64(p.Y)}
		}
		g.ctrl.OnTouchMove(touches)
		g.touching = true
		return
	}
	if g.touching {
		g.ctrl.OnTouchEnd()
		g.touching = false
		return
	}

	if !rl.IsCursorOnScreen() {
		if g.ctrl.Pointer().Active {
			g.ctrl.OnPointerLeave()
		}
		return
	}
	pos := rl.GetMousePosition()
	p := g.ctrl.Pointer()
	if !p.Active || p.X != float64(pos.X) || p.Y != float64(pos.Y) {
		g.ctrl.OnPointerMove(float64(pos.X), float64(pos.Y))
	}
}

// handleScroll scrolls the page by wheel and paging keys.
func (g *Game) handleScroll() {
	step := g.cfg.Page.ScrollStep
	_, viewH := g.page.Viewport()

	var dy float64
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		dy -= float64(wheel) * step
	}
	if rl.IsKeyPressed(rl.KeyPageDown) {
		dy += viewH * 0.9
	}
	if rl.IsKeyPressed(rl.KeyPageUp) {
		dy -= viewH * 0.9
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += step / 4
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= step / 4
	}

	moved := false
	switch {
	case rl.IsKeyPressed(rl.KeyHome):
		moved = g.page.SetScroll(0)
	case rl.IsKeyPressed(rl.KeyEnd):
		moved = g.page.SetScroll(g.page.ContentHeight())
	case dy != 0:
		moved = g.page.ScrollBy(dy)
	}
	if moved {
		g.ctrl.OnScroll()
	}
}
