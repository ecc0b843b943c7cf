package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sidsmp/internal/analysis"
	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

func quickRun(load float64) (*sim.Result, error) {
	return sim.RunSingle(load, model.DefaultParameters(), 10, 50)
}

func TestRenderRun(t *testing.T) {
	r, err := quickRun(2)
	if err != nil {
		t.Fatal(err)
	}

	out := RenderRun(r, 40, 5)
	for _, name := range chartSeries {
		if !strings.Contains(out, name) {
			t.Errorf("missing chart for %s", name)
		}
	}

	if RenderRun(nil, 40, 5) != "" {
		t.Error("expected empty output for nil result")
	}
}

func TestSummaryTable(t *testing.T) {
	summaries := make([]analysis.Summary, 0, 2)
	for _, load := range []float64{0, 5} {
		r, err := quickRun(load)
		if err != nil {
			t.Fatal(err)
		}
		summaries = append(summaries, analysis.Summarize(r))
	}

	out := SummaryTable(summaries)
	for _, want := range []string{"peak P", "functional", "decoupling", "5.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := []rune(Sparkline([]float64{0, 1, 2, 3}, 4)); len(got) != 4 || got[0] != '▁' || got[3] != '█' {
		t.Errorf("unexpected sparkline %q", string(got))
	}
	if Sparkline(nil, 3) != "───" {
		t.Error("expected flat line for empty input")
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs the command and feeds its message back, as the tea runtime
// would.
func deliver(t *testing.T, m Live, cmd tea.Cmd) Live {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(Live)
}

func TestLive_LoadKeysRerun(t *testing.T) {
	m := NewLive(1, quickRun)

	next, cmd := m.Update(keyMsg("up"))
	m = next.(Live)
	if m.Load() != 1.25 {
		t.Fatalf("expected load 1.25, got %f", m.Load())
	}
	m = deliver(t, m, cmd)
	if m.Result() == nil || m.Result().Load != 1.25 {
		t.Fatal("expected result for the new load")
	}

	next, _ = m.Update(keyMsg("down"))
	next, _ = next.Update(keyMsg("down"))
	next, _ = next.Update(keyMsg("down"))
	next, _ = next.Update(keyMsg("down"))
	next, _ = next.Update(keyMsg("down"))
	m = next.(Live)
	if m.Load() != 0 {
		t.Errorf("load should not go below zero, got %f", m.Load())
	}
}

func TestLive_DropsStaleResults(t *testing.T) {
	m := NewLive(1, quickRun)

	_, first := m.Update(keyMsg("up"))
	next, _ := m.Update(keyMsg("up"))
	m = next.(Live)
	next, _ = m.Update(keyMsg("up"))
	m = next.(Live)

	// the run requested for 1.25 arrives after the load moved on
	m = deliver(t, m, first)
	if m.Result() != nil {
		t.Error("stale result should be ignored")
	}
}

func TestLive_ReplayControls(t *testing.T) {
	m := NewLive(0, quickRun)
	m = deliver(t, m, m.rerun())

	next, cmd := m.Update(TickMsg{})
	m = next.(Live)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.Cursor() != samplesPerTick {
		t.Errorf("expected cursor %d, got %d", samplesPerTick, m.Cursor())
	}

	next, _ = m.Update(keyMsg(" "))
	m = next.(Live)
	if !m.Paused() {
		t.Fatal("space should pause")
	}
	next, _ = m.Update(TickMsg{})
	m = next.(Live)
	if m.Cursor() != samplesPerTick {
		t.Error("paused replay should not advance")
	}

	next, _ = m.Update(keyMsg("r"))
	m = next.(Live)
	if m.Cursor() != 0 || m.Paused() {
		t.Error("restart should rewind and resume")
	}

	for i := 0; i < 100; i++ {
		next, _ = m.Update(TickMsg{})
		m = next.(Live)
	}
	if m.Cursor() != m.Result().Len()-1 {
		t.Errorf("replay should stop at the last sample, got %d", m.Cursor())
	}

	if !strings.Contains(m.View(), "P_t") {
		t.Error("view should chart P_t")
	}
}

func TestLive_Quit(t *testing.T) {
	_, cmd := NewLive(0, quickRun).Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestLive_ShowsErrors(t *testing.T) {
	m := NewLive(0, func(float64) (*sim.Result, error) { return nil, errors.New("boom") })
	m = deliver(t, m, m.rerun())
	if !strings.Contains(m.View(), "boom") {
		t.Error("view should show the run error")
	}
}
