package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/needles/components"
	"github.com/pthm-cable/needles/config"
)

// PointerState is the latest pointer or touch position in viewport pixels.
type PointerState struct {
	X, Y   float64
	Active bool
}

// Needle is a snapshot of one needle.
type Needle struct {
	X, Y  float64
	Angle float64
}

// FrameResult summarises one field update.
type FrameResult struct {
	Total      int     // needles in the field
	Visible    int     // needles inside the render zone (updated and drawn)
	Influenced int     // visible needles within the pointer radius
	AlphaSum   float64 // sum of drawn alphas
}

// MeanAlpha returns the average alpha of drawn needles.
func (r FrameResult) MeanAlpha() float64 {
	if r.Visible == 0 {
		return 0
	}
	return r.AlphaSum / float64(r.Visible)
}

// FieldSystem owns the needles and runs the per-frame orientation update.
// Needles live in an ECS world; the set is replaced wholesale on every rebuild.
type FieldSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Anchor, components.Heading]
	filter *ecs.Filter2[components.Anchor, components.Heading]

	cfg   *config.Config
	noise NoiseSource
	rng   *rand.Rand
	count int

	width, height float64
}

// NewFieldSystem creates an empty field. Call Rebuild or Place to populate it.
func NewFieldSystem(cfg *config.Config, noise NoiseSource, rng *rand.Rand) *FieldSystem {
	world := ecs.NewWorld()
	return &FieldSystem{
		world:  world,
		mapper: ecs.NewMap2[components.Anchor, components.Heading](world),
		filter: ecs.NewFilter2[components.Anchor, components.Heading](world),
		cfg:    cfg,
		noise:  noise,
		rng:    rng,
	}
}

// Len returns the number of needles.
func (s *FieldSystem) Len() int {
	return s.count
}

// Size returns the viewport size of the last rebuild.
func (s *FieldSystem) Size() (width, height float64) {
	return s.width, s.height
}

// Rebuild lays a fresh jittered grid over a width x height viewport.
// Prior needles and their angles are discarded.
func (s *FieldSystem) Rebuild(width, height float64) {
	s.clear()
	s.width, s.height = width, height

	// Configs built without Load skip validation
	spacing := math.Max(s.cfg.SpacingFor(width), 1)
	jitter := s.cfg.Field.Jitter

	for gy := spacing * 0.5; gy < height; gy += spacing {
		for gx := spacing * 0.5; gx < width; gx += spacing {
			anchor := components.Anchor{
				X: gx + (s.rng.Float64()-0.5)*jitter*2,
				Y: gy + (s.rng.Float64()-0.5)*jitter*2,
			}
			heading := components.Heading{Angle: s.rng.Float64() * twoPi}
			s.mapper.NewEntity(&anchor, &heading)
			s.count++
		}
	}
}

// Place replaces the field with the given needles.
func (s *FieldSystem) Place(needles []Needle) {
	s.clear()
	for _, n := range needles {
		anchor := components.Anchor{X: n.X, Y: n.Y}
		heading := components.Heading{Angle: n.Angle}
		s.mapper.NewEntity(&anchor, &heading)
		s.count++
	}
}

// clear removes every needle entity.
func (s *FieldSystem) clear() {
	// Collect first; the world is locked while a query is open
	var toRemove []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		s.world.RemoveEntity(e)
	}
	s.count = 0
}

// Needles returns a snapshot of every needle in iteration order.
func (s *FieldSystem) Needles() []Needle {
	out := make([]Needle, 0, s.count)
	query := s.filter.Query()
	for query.Next() {
		a, h := query.Get()
		out = append(out, Needle{X: a.X, Y: a.Y, Angle: h.Angle})
	}
	return out
}

// Update advances every in-zone needle one frame and strokes it onto surf.
// timestamp is in milliseconds and drives the noise field's time axis.
// Needles outside the zone keep their angle and are not drawn.
func (s *FieldSystem) Update(timestamp float64, pointer PointerState, zone ZoneTester, surf Surface) FrameResult {
	fc := &s.cfg.Field
	pc := &s.cfg.Pointer
	noiseScale := s.cfg.Noise.Scale
	zOff := timestamp * s.cfg.Noise.TimeSpeed
	halfLen := s.cfg.Derived.HalfLength
	radius2 := s.cfg.Derived.PointerRadius2

	style := StrokeStyle{
		Width: fc.LineWidth,
		Cap:   CapRound,
		Color: color.RGBA{R: fc.Color[0], G: fc.Color[1], B: fc.Color[2], A: 255},
	}

	res := FrameResult{Total: s.count}

	query := s.filter.Query()
	for query.Next() {
		a, h := query.Get()
		if !zone.InZone(a.X, a.Y) {
			continue
		}
		res.Visible++

		noiseAngle := s.noise.Noise3D(a.X*noiseScale, a.Y*noiseScale, zOff) * twoPi

		target := noiseAngle
		alpha := fc.BaseAlpha
		speed := fc.LerpSpeed

		if pointer.Active {
			dx := pointer.X - a.X
			dy := pointer.Y - a.Y
			dist2 := dx*dx + dy*dy
			if dist2 < radius2 {
				influence := PointerInfluence(math.Sqrt(dist2), pc)
				target = LerpAngle(noiseAngle, math.Atan2(dy, dx), influence)
				alpha = fc.BaseAlpha + (fc.MaxAlpha-fc.BaseAlpha)*influence
				speed = math.Min(1, fc.LerpSpeed+pc.LerpBoost*influence)
				res.Influenced++
			}
		}

		h.Angle = LerpAngle(h.Angle, target, speed)

		cdx := math.Cos(h.Angle) * halfLen
		cdy := math.Sin(h.Angle) * halfLen
		style.Alpha = alpha
		surf.StrokeLine(a.X-cdx, a.Y-cdy, a.X+cdx, a.Y+cdy, style)
		res.AlphaSum += alpha
	}

	return res
}

// PointerInfluence maps a distance from the pointer to an influence in [0, 1]:
// eased proximity raised to the falloff power, scaled by strength and clamped.
func PointerInfluence(dist float64, pc *config.PointerConfig) float64 {
	if dist >= pc.Radius {
		return 0
	}
	t := EaseOutCubic(1 - dist/pc.Radius)
	t = math.Pow(t, pc.FalloffPower)
	return math.Min(1, t*pc.Strength)
}
