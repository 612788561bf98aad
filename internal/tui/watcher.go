package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/viz"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Target is the co-simulation slave a watcher drives.
type Target interface {
	Time() float64
	DoStep(current, commStep float64, noSetPriorState bool) fmu.Status
	Registry() *fmu.Registry
}

// Options configure a watcher. Zero values take sensible defaults.
type Options struct {
	Filter            string  // variable name prefix to list
	CommunicationStep float64 // simulated seconds per frame
	StopTime          float64 // pause when reached; zero runs forever
	Series            string  // real variable drawn as a sparkline
	Theme             string
	MaxRows           int
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Watcher steps a target and shows its exported variables and the shapes it
// publishes as VISUALIZER entries.
type Watcher struct {
	target Target
	opts   Options
	theme  viz.Theme
	camera *viz.Camera

	paused  bool
	failed  fmu.Status
	history []float64

	width  int
	height int
}

func NewWatcher(target Target, opts Options) *Watcher {
	if opts.CommunicationStep <= 0 {
		opts.CommunicationStep = 0.01
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = 12
	}
	return &Watcher{
		target: target,
		opts:   opts,
		theme:  viz.GetTheme(opts.Theme),
		camera: viz.NewCamera(),
		failed: fmu.StatusOK,
		width:  100,
		height: 40,
	}
}

func (w *Watcher) Init() tea.Cmd { return tick() }

func (w *Watcher) Paused() bool     { return w.paused }
func (w *Watcher) Theme() viz.Theme { return w.theme }

func (w *Watcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return w.handleKey(msg)
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil
	case tickMsg:
		if !w.paused {
			w.step()
		}
		return w, tick()
	}
	return w, nil
}

func (w *Watcher) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return w, tea.Quit
	case " ", "p":
		w.paused = !w.paused
	case "s":
		if w.paused {
			w.step()
		}
	case "t":
		w.theme = w.theme.Next()
	case "left", "h":
		w.camera.Orbit(-0.1, 0)
	case "right", "l":
		w.camera.Orbit(0.1, 0)
	case "up", "k":
		w.camera.Orbit(0, 0.1)
	case "down", "j":
		w.camera.Orbit(0, -0.1)
	}
	return w, nil
}

// step advances one communication step. A failed or finished run pauses the
// watcher.
func (w *Watcher) step() {
	if w.failed != fmu.StatusOK {
		w.paused = true
		return
	}
	now := w.target.Time()
	if w.opts.StopTime > 0 && now+w.opts.CommunicationStep > w.opts.StopTime+1e-9 {
		w.paused = true
		return
	}
	if st := w.target.DoStep(now, w.opts.CommunicationStep, true); st != fmu.StatusOK {
		w.failed = st
		w.paused = true
		return
	}
	if w.opts.Series != "" {
		if v, ok := w.target.Registry().Lookup(w.opts.Series); ok {
			if x, err := fmu.Get[float64](v); err == nil {
				w.history = append(w.history, x)
				if len(w.history) > 256 {
					w.history = w.history[len(w.history)-256:]
				}
			}
		}
	}
}

func (w *Watcher) View() string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(w.theme.Primary)
	muted := lipgloss.NewStyle().Foreground(w.theme.Muted)
	text := lipgloss.NewStyle().Foreground(w.theme.Text)

	status := green.Render("● running")
	switch {
	case w.failed != fmu.StatusOK:
		status = red.Render("✕ " + w.failed.String())
	case w.paused:
		status = lipgloss.NewStyle().Foreground(w.theme.Warning).Render("○ paused")
	}
	fmt.Fprintf(&b, "\n   %s  %s  %s %s\n", title.Render("dynfmu"), status,
		muted.Render("t ="), text.Render(fmt.Sprintf("%.3fs", w.target.Time())))

	if w.opts.StopTime > 0 {
		progress := min(w.target.Time()/w.opts.StopTime, 1)
		barWidth := 36
		filled := int(progress * float64(barWidth))
		fmt.Fprintf(&b, "   %s%s\n",
			cyan.Render(strings.Repeat("━", filled)),
			dimmer.Render(strings.Repeat("─", barWidth-filled)))
	}
	b.WriteString("\n")

	cw := max(w.width/2-4, 30)
	ch := max(w.height-20, 10)
	canvas := viz.NewCanvas(cw, ch)
	viz.RenderScene(canvas, w.camera, viz.ReadShapes(w.target.Registry()))
	scene := lipgloss.NewStyle().Foreground(w.theme.Accent).Render(canvas.String())

	vars := w.target.Registry().Filter(w.opts.Filter)
	more := ""
	if len(vars) > w.opts.MaxRows {
		more = dim.Render(fmt.Sprintf("   ... %d more", len(vars)-w.opts.MaxRows))
		vars = vars[:w.opts.MaxRows]
	}
	table := viz.VariableTable(vars)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "   ", scene, "  ", table))
	b.WriteString("\n")
	if more != "" {
		b.WriteString(more + "\n")
	}

	if len(w.history) > 1 {
		fmt.Fprintf(&b, "\n   %s %s\n", dim.Render(w.opts.Series), viz.Sparkline(w.history, 40))
	}

	b.WriteString("\n" + viz.KeyHint.Render("   space pause  s step  arrows orbit  t theme ("+w.theme.Name+")  q quit") + "\n")
	return b.String()
}

// Run starts the watcher full screen and blocks until the user quits.
func Run(target Target, opts Options) error {
	p := tea.NewProgram(NewWatcher(target, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
