package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/sidsmp/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	finalEnergy := dyn.Energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x, newDt, accepted := integrator.StepAdaptive(dyn, x0, 0, 0.1, 1e-8)

	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if newDt <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", newDt)
	}
	if accepted && newDt > 0.1*10 {
		t.Errorf("step growth exceeded max scale: %f", newDt)
	}
}

func TestRK45_RejectsOversizedStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &decay{rate: 50}

	_, newDt, accepted := integrator.StepAdaptive(dyn, dynamo.State{1.0}, 0, 1.0, 1e-10)
	if accepted {
		t.Fatal("expected a unit step on a fast decay to be rejected")
	}
	if newDt >= 1.0 {
		t.Errorf("rejected step should shrink dt, got %f", newDt)
	}
}

func TestRK45_DecayMatchesClosedForm(t *testing.T) {
	integrator := NewRK45()
	dyn := &decay{rate: 1}
	x := dynamo.State{1.0}
	tNow, dt, end := 0.0, 0.1, 5.0

	for tNow < end {
		last := dt >= end-tNow
		h := math.Min(dt, end-tNow)
		next, dtNext, ok := integrator.StepAdaptive(dyn, x, tNow, h, 1e-10)
		if ok {
			x = next
			if last {
				tNow = end
			} else {
				tNow += h
			}
		}
		dt = dtNext
	}

	if math.Abs(x[0]-math.Exp(-end)) > 1e-8 {
		t.Errorf("expected %.10f, got %.10f", math.Exp(-end), x[0])
	}
}

type nanSystem struct{}

func (nanSystem) StateDim() int { return 1 }
func (nanSystem) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{math.NaN()}
}

func TestRK45_NaNIsRejected(t *testing.T) {
	integrator := NewRK45()
	x, newDt, accepted := integrator.StepAdaptive(nanSystem{}, dynamo.State{1.0}, 0, 0.5, 1e-6)
	if accepted {
		t.Fatal("NaN derivative must not be accepted")
	}
	if x[0] != 1.0 {
		t.Errorf("rejected step should return the input state, got %v", x)
	}
	if newDt >= 0.5 {
		t.Errorf("expected shrunken dt, got %f", newDt)
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x4 := x0.Clone()
	x45 := x0.Clone()
	dt := 0.1

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(dyn, x4, float64(i)*dt, dt)
		x45 = rk45.Step(dyn, x45, float64(i)*dt, dt)
	}

	t.Logf("RK4 final: [%.6f, %.6f]", x4[0], x4[1])
	t.Logf("RK45 final: [%.6f, %.6f]", x45[0], x45[1])

	e4 := dyn.Energy(x4)
	e45 := dyn.Energy(x45)

	if math.Abs(e45-1.0) > math.Abs(e4-1.0) {
		t.Log("Warning: RK45 not more accurate than RK4 for this case")
	}
}
