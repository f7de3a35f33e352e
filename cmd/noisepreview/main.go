// Noise field preview tool - interactive needle field tuning with sliders.
//
// Usage: go run ./cmd/noisepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/needles/config"
	"github.com/pthm-cable/needles/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	heatSize     = 128
)

// PreviewParams holds the tunables shown in the panel.
type PreviewParams struct {
	Backend    string
	Scale      float32
	TimeSpeed  float32
	Spacing    float32
	LineLength float32
	Seed       int64
}

// yamlSnippet is the config fragment printed and copied by the tool.
type yamlSnippet struct {
	Noise struct {
		Backend   string  `yaml:"backend"`
		Scale     float64 `yaml:"scale"`
		TimeSpeed float64 `yaml:"time_speed"`
	} `yaml:"noise"`
	Field struct {
		GridSpacing float64 `yaml:"grid_spacing"`
		LineLength  float64 `yaml:"line_length"`
	} `yaml:"field"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Noise Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaults := paramsFrom(cfg)
	params := defaults

	img := rl.GenImageColor(heatSize, heatSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	noise := mustNoise(params)
	heat := make([]color.RGBA, heatSize*heatSize)

	// Timestamp in milliseconds, like the field's frame clock
	var timestamp float64
	animating := false
	showHeat := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			timestamp += float64(rl.GetFrameTime()) * 1000
			needsRegen = true
		}

		if needsRegen {
			generateHeat(heat, noise, params, timestamp)
			rl.UpdateTexture(texture, heat)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview
		if showHeat {
			rl.DrawTexturePro(
				texture,
				rl.Rectangle{X: 0, Y: 0, Width: heatSize, Height: heatSize},
				rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
				rl.Vector2{X: 0, Y: 0},
				0,
				rl.White,
			)
		}
		minVal, maxVal := drawNeedles(noise, params, timestamp)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Noise min: %.3f  max: %.3f", minVal, maxVal), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.0f ms  z: %.4f", timestamp, timestamp*float64(params.TimeSpeed)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Needle Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, format string, value, lo, hi float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
				value, lo, hi,
			)
			rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if v := slider("Scale (spatial frequency)", "%.4f", params.Scale, 0.0005, 0.01); v != params.Scale {
			params.Scale = v
			needsRegen = true
		}
		if v := slider("Time speed (z per ms)", "%.5f", params.TimeSpeed, 0, 0.0005); v != params.TimeSpeed {
			params.TimeSpeed = v
			needsRegen = true
		}
		if v := slider("Grid spacing (px)", "%.0f", params.Spacing, 12, 64); v != params.Spacing {
			params.Spacing = float32(math.Round(float64(v)))
		}
		if v := slider("Line length (px)", "%.0f", params.LineLength, 4, 32); v != params.LineLength {
			params.LineLength = float32(math.Round(float64(v)))
		}
		if v := slider("Seed", "%.0f", float32(params.Seed), 0, 99999); int64(v) != params.Seed {
			params.Seed = int64(v)
			noise = mustNoise(params)
			needsRegen = true
		}

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			timestamp = 0
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 260, Y: panelY, Width: 120, Height: 30}, toggleText(showHeat, "Hide Heat", "Show Heat")) {
			showHeat = !showHeat
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			noise = mustNoise(params)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Backend: "+params.Backend) {
			params.Backend = nextBackend(params.Backend)
			noise = mustNoise(params)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 260, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			noise = mustNoise(params)
			timestamp = 0
			needsRegen = true
		}
		panelY += 50

		// Output YAML
		out := snippetYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(out, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func paramsFrom(cfg *config.Config) PreviewParams {
	backend := cfg.Noise.Backend
	if backend == "" {
		backend = "simplex"
	}
	return PreviewParams{
		Backend:    backend,
		Scale:      float32(cfg.Noise.Scale),
		TimeSpeed:  float32(cfg.Noise.TimeSpeed),
		Spacing:    float32(cfg.Field.GridSpacing),
		LineLength: float32(cfg.Field.LineLength),
		Seed:       1,
	}
}

func nextBackend(b string) string {
	if b == "simplex" {
		return "opensimplex"
	}
	return "simplex"
}

func mustNoise(params PreviewParams) systems.NoiseSource {
	noise, err := systems.NewNoiseSource(params.Backend, rand.New(rand.NewSource(params.Seed)))
	if err != nil {
		panic(err)
	}
	return noise
}

// drawNeedles strokes the preview grid at the noise angle and returns the
// sampled noise range.
func drawNeedles(noise systems.NoiseSource, params PreviewParams, timestamp float64) (minVal, maxVal float64) {
	scale := float64(params.Scale)
	z := timestamp * float64(params.TimeSpeed)
	spacing := float64(params.Spacing)
	half := float64(params.LineLength) / 2

	minVal, maxVal = 1, -1
	for gy := spacing * 0.5; gy < previewSize; gy += spacing {
		for gx := spacing * 0.5; gx < previewSize; gx += spacing {
			n := noise.Noise3D(gx*scale, gy*scale, z)
			minVal = math.Min(minVal, n)
			maxVal = math.Max(maxVal, n)

			angle := n * 2 * math.Pi
			dx, dy := math.Cos(angle)*half, math.Sin(angle)*half
			x, y := 10+gx, 10+gy
			rl.DrawLineEx(
				rl.Vector2{X: float32(x - dx), Y: float32(y - dy)},
				rl.Vector2{X: float32(x + dx), Y: float32(y + dy)},
				1.5,
				rl.ColorAlpha(rl.Black, float32(0.25+0.5*math.Abs(n))),
			)
		}
	}
	return minVal, maxVal
}

// generateHeat samples noise over the preview area into a blue-to-amber ramp.
func generateHeat(pixels []color.RGBA, noise systems.NoiseSource, params PreviewParams, timestamp float64) {
	scale := float64(params.Scale)
	z := timestamp * float64(params.TimeSpeed)
	step := float64(previewSize) / heatSize

	for y := 0; y < heatSize; y++ {
		for x := 0; x < heatSize; x++ {
			n := noise.Noise3D((float64(x)+0.5)*step*scale, (float64(y)+0.5)*step*scale, z)
			t := (n + 1) / 2
			t = math.Max(0, math.Min(1, t))
			pixels[y*heatSize+x] = color.RGBA{
				R: uint8(40 + t*200),
				G: uint8(90 + t*100),
				B: uint8(200 - t*150),
				A: 120,
			}
		}
	}
}

// snippetYAML renders the current parameters as a config fragment.
func snippetYAML(params PreviewParams) string {
	var s yamlSnippet
	s.Noise.Backend = params.Backend
	s.Noise.Scale = float64(params.Scale)
	s.Noise.TimeSpeed = float64(params.TimeSpeed)
	s.Field.GridSpacing = float64(params.Spacing)
	s.Field.LineLength = float64(params.LineLength)

	out, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Sprintf("# %v", err)
	}
	return string(out)
}
