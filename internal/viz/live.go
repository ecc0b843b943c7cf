package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sidsmp/internal/analysis"
	"github.com/san-kum/sidsmp/internal/sim"
)

const (
	// LoadStep is the load change per up/down key press.
	LoadStep = 0.25
	// samplesPerTick is the replay speed.
	samplesPerTick = 2
	frameRate      = 30
	chartWidth     = 60
	chartHeight    = 6
)

// RunFunc produces a run for a load. It is called off the UI goroutine.
type RunFunc func(load float64) (*sim.Result, error)

type TickMsg time.Time

// resultMsg carries a finished run back to Update.
type resultMsg struct {
	load   float64
	result *sim.Result
	err    error
}

// Live replays a run sample by sample. Changing the load starts a new run;
// results for a load that is no longer selected are dropped.
type Live struct {
	run     RunFunc
	load    float64
	result  *sim.Result
	err     error
	cursor  int
	paused  bool
	pending bool
}

func NewLive(load float64, run RunFunc) Live {
	return Live{run: run, load: load, pending: true}
}

func (m Live) Load() float64 { return m.load }

func (m Live) Cursor() int { return m.cursor }

func (m Live) Paused() bool { return m.paused }

func (m Live) Result() *sim.Result { return m.result }

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) rerun() tea.Cmd {
	load, run := m.load, m.run
	return func() tea.Msg {
		r, err := run(load)
		return resultMsg{load: load, result: r, err: err}
	}
}

func (m Live) Init() tea.Cmd {
	return tea.Batch(m.rerun(), tick())
}

// Update handles input events and advances the replay.
func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.cursor = 0
			m.paused = false
		case "up", "k":
			m.load += LoadStep
			m.pending = true
			return m, m.rerun()
		case "down", "j":
			m.load = max(0, m.load-LoadStep)
			m.pending = true
			return m, m.rerun()
		}
	case resultMsg:
		if msg.load != m.load {
			return m, nil
		}
		m.pending = false
		m.result, m.err = msg.result, msg.err
		m.cursor = 0
	case TickMsg:
		if !m.paused && m.result != nil && m.cursor < m.result.Len()-1 {
			m.cursor = min(m.cursor+samplesPerTick, m.result.Len()-1)
		}
		return m, tick()
	}
	return m, nil
}

func (m Live) View() string {
	var s strings.Builder

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = StatusError.Render("ERROR")
	case m.pending:
		status = StatusPaused.Render("COMPUTING")
	case m.paused:
		status = StatusPaused.Render("PAUSED")
	case m.result != nil && m.cursor == m.result.Len()-1:
		status = Subtle.Render("DONE")
	}
	s.WriteString(Title.Render(fmt.Sprintf("SIDSMP  load T=%.2f", m.load)) + "  " + status + "\n\n")

	if m.err != nil {
		s.WriteString(StatusError.Render(m.err.Error()) + "\n")
		s.WriteString(KeyHint.Render("\n↑↓:Load  Q:Quit"))
		return Panel.Render(s.String())
	}
	if m.result == nil || m.result.Len() == 0 {
		s.WriteString(Subtle.Render("waiting for first run...") + "\n")
		return Panel.Render(s.String())
	}

	r := m.result
	end := m.cursor + 1
	regime := analysis.RegimeFor(m.load, r.Params)
	regimeText := string(regime)
	if st, ok := regimeStyle[regimeText]; ok {
		regimeText = st.Render(regimeText)
	}

	if end > 1 {
		chart := asciigraph.Plot(r.Pt[:end], asciigraph.Height(chartHeight), asciigraph.Width(chartWidth), asciigraph.Caption("P_t"))
		s.WriteString(chart + "\n\n")
		chart = asciigraph.Plot(r.Coupling[:end], asciigraph.Height(chartHeight), asciigraph.Width(chartWidth), asciigraph.Caption("coupling"))
		s.WriteString(chart + "\n\n")
	}

	cur := r.Sample(m.cursor)
	stats := []struct {
		label string
		value string
	}{
		{"t", fmt.Sprintf("%.2f / %.2f", cur.T, r.T[r.Len()-1])},
		{"λ", fmt.Sprintf("%.4f", r.Lambda)},
		{"regime", regimeText},
		{"I_raw", fmt.Sprintf("%.4f", cur.State.IRaw)},
		{"I_sub", fmt.Sprintf("%.4f", cur.State.ISub)},
		{"coupling", fmt.Sprintf("%.4f", cur.State.Coupling)},
		{"C", fmt.Sprintf("%.4f", cur.Coherence)},
		{"P_t", fmt.Sprintf("%.4f", cur.Energetics.Pt)},
	}
	for _, st := range stats {
		s.WriteString(MetricLabel.Render(fmt.Sprintf("%-9s", st.label)) + MetricValue.Render(st.value) + "\n")
	}

	s.WriteString("\n" + ProgressBar(float64(m.cursor)/float64(max(r.Len()-1, 1)), 40) + "\n")
	s.WriteString(Subtle.Render("I_sub ") + Sparkline(r.ISub, 40) + "\n")
	s.WriteString(KeyHint.Render("\nSP:Pause R:Restart Q:Quit ↑↓:Load ±0.25"))

	return Panel.Render(s.String())
}
