package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase is one timed slice of a frame.
type Phase uint8

const (
	PhaseTimers Phase = iota // debounced resize and layout rebuilds
	PhaseField               // needle update and strokes
	PhasePage                // host page landmarks
	PhaseHUD
	NumPhases
)

var phaseNames = [NumPhases]string{"timers", "field", "page", "hud"}

func (p Phase) String() string {
	if p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PhaseTimes holds per-phase durations for one frame.
type PhaseTimes [NumPhases]time.Duration

// PerfCollector times frames against a budget over a rolling window.
// Recording a frame allocates nothing.
type PerfCollector struct {
	budget time.Duration

	stepUS []float64 // ring of step durations in microseconds
	phases []PhaseTimes
	next   int
	filled int

	current    PhaseTimes
	inPhase    bool
	phase      Phase
	stepStart  time.Time
	phaseStart time.Time

	lastPresent time.Time
	interval    time.Duration

	scratch []float64
}

// NewPerfCollector creates a collector over window frames. budget is the
// time one frame may take at the target rate; zero disables budget tracking.
func NewPerfCollector(window int, budget time.Duration) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		budget:  budget,
		stepUS:  make([]float64, window),
		phases:  make([]PhaseTimes, window),
		scratch: make([]float64, 0, window),
	}
}

// StartStep begins timing a new frame.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.current = PhaseTimes{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	if ph >= NumPhases {
		return
	}
	p.phase, p.phaseStart, p.inPhase = ph, now, true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndStep closes the frame and stores it in the window.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	p.closePhase(now)

	p.stepUS[p.next] = float64(now.Sub(p.stepStart)) / float64(time.Microsecond)
	p.phases[p.next] = p.current
	p.next = (p.next + 1) % len(p.stepUS)
	if p.filled < len(p.stepUS) {
		p.filled++
	}
}

// RecordFrame marks a presented frame; the gap between two marks is the frame interval.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.interval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats summarises the frames in the window.
type PerfStats struct {
	Frames int
	Budget time.Duration

	MeanStep time.Duration
	P95Step  time.Duration
	MaxStep  time.Duration
	Jitter   time.Duration // standard deviation of step time

	// OverBudget is the share of frames whose step exceeded Budget.
	OverBudget float64

	PhaseMean  PhaseTimes
	PhaseShare [NumPhases]float64 // of MeanStep, 0..1

	FrameInterval time.Duration
	FPS           float64
}

// Stats summarises the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Frames:        p.filled,
		Budget:        p.budget,
		FrameInterval: p.interval,
	}
	if p.interval > 0 {
		s.FPS = float64(time.Second) / float64(p.interval)
	}
	if p.filled == 0 {
		return s
	}

	steps := append(p.scratch[:0], p.stepUS[:p.filled]...)
	mean, std := stat.MeanStdDev(steps, nil)
	if p.filled < 2 {
		std = 0
	}
	s.MeanStep = microseconds(mean)
	s.Jitter = microseconds(std)
	s.MaxStep = microseconds(floats.Max(steps))

	if p.budget > 0 {
		limit := float64(p.budget) / float64(time.Microsecond)
		over := 0
		for _, v := range steps {
			if v > limit {
				over++
			}
		}
		s.OverBudget = float64(over) / float64(p.filled)
	}

	sort.Float64s(steps)
	s.P95Step = microseconds(Percentile(steps, 0.95))

	var sums PhaseTimes
	for _, ft := range p.phases[:p.filled] {
		for ph, d := range ft {
			sums[ph] += d
		}
	}
	for ph := range sums {
		s.PhaseMean[ph] = sums[ph] / time.Duration(p.filled)
		if s.MeanStep > 0 {
			s.PhaseShare[ph] = float64(s.PhaseMean[ph]) / float64(s.MeanStep)
		}
	}
	return s
}

func microseconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Microsecond))
}

// LogStats logs the window at Info.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("mean_step_us", s.MeanStep.Microseconds()),
		slog.Int64("p95_step_us", s.P95Step.Microseconds()),
		slog.Int64("max_step_us", s.MaxStep.Microseconds()),
		slog.Int64("jitter_us", s.Jitter.Microseconds()),
	}
	if s.Budget > 0 {
		attrs = append(attrs, slog.Float64("over_budget", s.OverBudget))
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph := Phase(0); ph < NumPhases; ph++ {
		if share := s.PhaseShare[ph]; share > 0.001 {
			attrs = append(attrs, slog.Float64(ph.String()+"_share", share))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfRow is one perf.csv line.
type PerfRow struct {
	WindowEnd   int     `csv:"window_end"`
	Frames      int     `csv:"frames"`
	MeanStepUS  int64   `csv:"mean_step_us"`
	P95StepUS   int64   `csv:"p95_step_us"`
	MaxStepUS   int64   `csv:"max_step_us"`
	JitterUS    int64   `csv:"jitter_us"`
	OverBudget  float64 `csv:"over_budget"`
	FPS         float64 `csv:"fps"`
	TimersShare float64 `csv:"timers_share"`
	FieldShare  float64 `csv:"field_share"`
	PageShare   float64 `csv:"page_share"`
	HUDShare    float64 `csv:"hud_share"`
}

// Row flattens the stats for CSV export.
func (s PerfStats) Row(windowEnd int) PerfRow {
	return PerfRow{
		WindowEnd:   windowEnd,
		Frames:      s.Frames,
		MeanStepUS:  s.MeanStep.Microseconds(),
		P95StepUS:   s.P95Step.Microseconds(),
		MaxStepUS:   s.MaxStep.Microseconds(),
		JitterUS:    s.Jitter.Microseconds(),
		OverBudget:  s.OverBudget,
		FPS:         s.FPS,
		TimersShare: s.PhaseShare[PhaseTimers],
		FieldShare:  s.PhaseShare[PhaseField],
		PageShare:   s.PhaseShare[PhasePage],
		HUDShare:    s.PhaseShare[PhaseHUD],
	}
}
