package telemetry

import (
	"testing"
	"time"
)

func runSteps(pc *PerfCollector, n int, field time.Duration) {
	for i := 0; i < n; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseTimers)
		pc.StartPhase(PhaseField)
		time.Sleep(field)
		pc.EndStep()
	}
}

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10, 0)
	runSteps(pc, 5, 200*time.Microsecond)

	s := pc.Stats()
	if s.Frames != 5 {
		t.Errorf("expected 5 frames, got %d", s.Frames)
	}
	if s.MeanStep <= 0 || s.MaxStep < s.MeanStep || s.P95Step > s.MaxStep {
		t.Errorf("inconsistent step stats: mean %v p95 %v max %v", s.MeanStep, s.P95Step, s.MaxStep)
	}
	if s.PhaseMean[PhaseField] < 200*time.Microsecond {
		t.Errorf("expected field phase >= 200us, got %v", s.PhaseMean[PhaseField])
	}
	if s.PhaseShare[PhaseField] <= s.PhaseShare[PhaseTimers] {
		t.Errorf("expected field share %v > timers share %v", s.PhaseShare[PhaseField], s.PhaseShare[PhaseTimers])
	}
	if s.PhaseMean[PhasePage] != 0 || s.PhaseMean[PhaseHUD] != 0 {
		t.Error("expected untimed phases to stay zero")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5, 0)
	runSteps(pc, 12, 0)

	if s := pc.Stats(); s.Frames != 5 {
		t.Errorf("expected window capped at 5 frames, got %d", s.Frames)
	}
}

func TestPerfCollectorOverBudget(t *testing.T) {
	tight := NewPerfCollector(10, time.Nanosecond)
	runSteps(tight, 4, 50*time.Microsecond)
	if got := tight.Stats().OverBudget; got != 1 {
		t.Errorf("expected every frame over a 1ns budget, got %v", got)
	}

	loose := NewPerfCollector(10, time.Hour)
	runSteps(loose, 4, 0)
	if got := loose.Stats().OverBudget; got != 0 {
		t.Errorf("expected no frame over a 1h budget, got %v", got)
	}
}

func TestPerfCollectorUnknownPhaseIgnored(t *testing.T) {
	pc := NewPerfCollector(4, 0)
	pc.StartStep()
	pc.StartPhase(NumPhases + 3)
	pc.EndStep()

	s := pc.Stats()
	for ph := Phase(0); ph < NumPhases; ph++ {
		if s.PhaseMean[ph] != 0 {
			t.Errorf("phase %v: expected zero, got %v", ph, s.PhaseMean[ph])
		}
	}
	if got := (NumPhases + 3).String(); got != "unknown" {
		t.Errorf("expected unknown phase name, got %q", got)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	s := NewPerfCollector(10, 16*time.Millisecond).Stats()
	if s.Frames != 0 || s.MeanStep != 0 || s.OverBudget != 0 {
		t.Errorf("expected zero stats for an empty collector, got %+v", s)
	}
	if s.Budget != 16*time.Millisecond {
		t.Errorf("expected budget carried through, got %v", s.Budget)
	}
}

func TestPerfCollectorFrameInterval(t *testing.T) {
	pc := NewPerfCollector(10, 0)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	if s.FrameInterval < 15*time.Millisecond {
		t.Errorf("expected interval >= 15ms, got %v", s.FrameInterval)
	}
	// Intervals of at least 16ms cap FPS at 62.5
	if s.FPS <= 0 || s.FPS > 62.5 {
		t.Errorf("expected FPS in (0, 62.5], got %v", s.FPS)
	}
}

func TestPerfStatsRow(t *testing.T) {
	var s PerfStats
	s.MeanStep = 2 * time.Millisecond
	s.OverBudget = 0.25
	s.PhaseShare[PhaseField] = 0.75
	s.PhaseShare[PhaseTimers] = 0.05

	row := s.Row(120)
	if row.WindowEnd != 120 || row.MeanStepUS != 2000 || row.OverBudget != 0.25 {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.FieldShare != 0.75 || row.TimersShare != 0.05 || row.HUDShare != 0 {
		t.Errorf("unexpected phase shares: %+v", row)
	}
}
