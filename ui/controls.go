package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const buttonHeight = 24

// ControlsPanel renders the raygui controls: field start/stop and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the visible panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, c.bounds())
}

func (c *ControlsPanel) bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height)}
}

// Draw renders the panel and applies overlay toggles. Reports whether the
// field start/stop button was pressed.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, fieldRunning bool) bool {
	if !c.visible {
		return false
	}

	r := c.renderer
	padding := r.Theme.Padding
	rowHeight := int32(buttonHeight + 4)

	rows := int32(1)
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat)))
	}
	c.height = padding*2 + r.Theme.Line + 4 + rows*rowHeight + int32(len(overlays.Categories()))*r.Theme.Line
	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := float32(c.x + padding)
	y := c.y + padding
	w := float32(c.width - padding*2)

	rl.DrawText("Controls", c.x+padding, y, 16, r.Theme.Title)
	y += r.Theme.Line + 4

	label := "Stop field"
	if !fieldRunning {
		label = "Start field"
	}
	toggled := gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: w, Height: buttonHeight}, label+" [Space]")
	y += rowHeight

	for _, category := range overlays.Categories() {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category)) - 2
		for _, desc := range overlays.ByCategory(category) {
			mark := "[ ]"
			if overlays.IsEnabled(desc.ID) {
				mark = "[x]"
			}
			text := fmt.Sprintf("%s %s (%s)", mark, desc.Name, desc.KeyLabel)
			if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: w, Height: buttonHeight}, text) {
				overlays.Toggle(desc.ID)
			}
			y += rowHeight
		}
	}

	return toggled
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "page":
		return "Page"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
