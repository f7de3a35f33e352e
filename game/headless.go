package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/needles/config"
	"github.com/pthm-cable/needles/page"
	"github.com/pthm-cable/needles/systems"
)

// Scripted visitor for headless runs.
const (
	orbitPeriod = 6 * time.Second
	orbitLaps   = 4 // the pointer leaves the window on the last lap of each cycle
	scrollEvery = 30
	toggleEvery = 240
	resizeEvery = 900
	mobileWidth = 700
)

// Headless drives the field without a window. Strokes go to a recording
// surface, time comes from a synthetic frame clock, and a scripted visitor
// moves the pointer, scrolls, opens cards and resizes the viewport.
type Headless struct {
	cfg      *config.Config
	page     *page.Page
	recorder *systems.SegmentRecorder
	ctrl     *Controller

	clock         time.Duration
	frameInterval time.Duration
	frame         int
	scrollDir     float64
	mobile        bool
}

// NewHeadless builds a headless host at the configured screen size.
func NewHeadless(cfg *config.Config, opts Options, seed int64, reducedMotion bool) (*Headless, error) {
	rng := rand.New(rand.NewSource(seed))
	noise, err := systems.NewNoiseSource(cfg.Noise.Backend, rng)
	if err != nil {
		return nil, fmt.Errorf("creating noise source: %w", err)
	}

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}

	h := &Headless{
		cfg:           cfg,
		page:          page.New(cfg, float64(cfg.Screen.Width), float64(cfg.Screen.Height)),
		recorder:      &systems.SegmentRecorder{},
		frameInterval: time.Second / time.Duration(fps),
		scrollDir:     1,
	}
	host := &PageHost{
		Page:          h.page,
		Drawable:      h.recorder,
		Ratio:         1,
		PrefersStatic: reducedMotion,
		Clock:         func() time.Duration { return h.clock },
	}
	h.ctrl = NewController(host, cfg, noise, rng, opts)
	return h, nil
}

// Start starts the controller.
func (h *Headless) Start() error {
	return h.ctrl.Start()
}

// Step advances the clock one frame, plays the script and runs the frame.
func (h *Headless) Step() systems.FrameResult {
	h.clock += h.frameInterval
	h.frame++
	h.script()

	res := h.ctrl.Frame(h.clock)
	h.ctrl.Present()
	return res
}

// Run steps until frames have run or ctx is done, then stops the controller.
// frames <= 0 runs until ctx is done.
func (h *Headless) Run(ctx context.Context, frames int) error {
	defer h.ctrl.Stop()

	for frames <= 0 || h.frame < frames {
		select {
		case <-ctx.Done():
			slog.Info("headless run interrupted", "frame", h.frame)
			return ctx.Err()
		default:
		}
		h.Step()
	}
	slog.Info("max frames reached", "frame", h.frame)
	return nil
}

// script plays the visitor's input for the current frame.
func (h *Headless) script() {
	w, ht := h.page.Viewport()

	lap := int(h.clock / orbitPeriod)
	if lap%orbitLaps == orbitLaps-1 {
		if h.ctrl.Pointer().Active {
			h.ctrl.OnPointerLeave()
		}
	} else {
		theta := 2 * math.Pi * float64(h.clock%orbitPeriod) / float64(orbitPeriod)
		r := math.Min(w, ht) / 3
		h.ctrl.OnPointerMove(w/2+r*math.Cos(theta), ht/2+r*math.Sin(theta))
	}

	if h.frame%scrollEvery == 0 {
		step := h.cfg.Page.ScrollStep
		if !h.page.ScrollBy(h.scrollDir * step) {
			h.scrollDir = -h.scrollDir
			h.page.ScrollBy(h.scrollDir * step)
		}
		h.ctrl.OnScroll()
	}

	if n := h.cfg.Page.CardCount; n > 0 && h.frame%toggleEvery == 0 {
		h.page.ToggleCard((h.frame/toggleEvery - 1) % n)
	}

	if h.frame%resizeEvery == 0 {
		h.mobile = !h.mobile
		width := float64(h.cfg.Screen.Width)
		if h.mobile {
			width = mobileWidth
		}
		h.page.Resize(width, ht)
		h.ctrl.OnResize()
	}
}

// Frame returns the number of frames stepped.
func (h *Headless) Frame() int {
	return h.frame
}

// Controller returns the field controller.
func (h *Headless) Controller() *Controller {
	return h.ctrl
}

// Page returns the page model.
func (h *Headless) Page() *page.Page {
	return h.page
}

// Recorder returns the recording surface.
func (h *Headless) Recorder() *systems.SegmentRecorder {
	return h.recorder
}
