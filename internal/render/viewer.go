package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Iron-Ham/parsort/internal/heartbeat"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg heartbeat.Frame

type endMsg struct{ data []int }

// viewerModel is the bubbletea model behind Viewer.
type viewerModel struct {
	width    int
	levels   int
	workers  int
	initial  []int
	frame    *heartbeat.Frame
	final    []int
	progress progress.Model
	onQuit   func()
	quitting bool
}

func newViewerModel(data []int, levels, workers, width int, onQuit func()) viewerModel {
	return viewerModel{
		width:    width,
		levels:   levels,
		workers:  workers,
		initial:  data,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(max(width-4, 10))),
		onQuit:   onQuit,
	}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		}
		return m, nil

	case frameMsg:
		f := heartbeat.Frame(msg)
		m.frame = &f
		return m, nil

	case endMsg:
		m.final = msg.data
		return m, tea.Quit
	}
	return m, nil
}

func (m viewerModel) percent() float64 {
	if m.final != nil {
		return 1
	}
	if m.frame == nil || m.frame.Counts.Total == 0 {
		return 0
	}
	return float64(m.frame.Counts.Done) / float64(m.frame.Counts.Total)
}

func (m viewerModel) View() string {
	var b strings.Builder
	b.WriteString(Title.Render(StartBanner(m.levels, m.workers)))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n\n")

	switch {
	case m.final != nil:
		b.WriteString(Plot(m.final, m.width, DefaultHeight))
		b.WriteString("\n\n")
		b.WriteString(Title.Render(CompletedBanner))
	case m.frame != nil:
		b.WriteString(Muted.Render(Summary(m.frame.Round, m.frame.Counts)))
		b.WriteString("\n")
		b.WriteString(StatusTable(m.frame.Samples))
		b.WriteString("\n")
		b.WriteString(Plot(m.frame.Data, m.width, DefaultHeight))
	default:
		b.WriteString(Plot(m.initial, m.width, DefaultHeight))
	}

	b.WriteString("\n\n")
	b.WriteString(Muted.Render("q: stop"))
	return b.String()
}

// Viewer shows the run in a full-screen bubbletea program. Pressing q or
// ctrl+c calls onQuit, which is expected to cancel the run.
type Viewer struct {
	out    io.Writer
	width  int
	onQuit func()
	opts   []tea.ProgramOption

	program *tea.Program
	done    chan struct{}
	runErr  error
	once    sync.Once
}

// NewViewer creates a Viewer writing to out. Extra program options are
// appended to the defaults.
func NewViewer(out io.Writer, width int, onQuit func(), opts ...tea.ProgramOption) *Viewer {
	if width < 1 {
		width = TerminalWidth()
	}
	return &Viewer{out: out, width: width, onQuit: onQuit, opts: opts}
}

// Begin starts the program showing the initial dataset.
func (v *Viewer) Begin(data []int, levels, workers int) error {
	model := newViewerModel(data, levels, workers, v.width, v.onQuit)
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithOutput(v.out)}, v.opts...)
	v.program = tea.NewProgram(model, opts...)
	v.done = make(chan struct{})

	go func() {
		defer close(v.done)
		if _, err := v.program.Run(); err != nil {
			v.runErr = fmt.Errorf("viewer: %w", err)
		}
	}()
	return nil
}

// Round hands the frame to the program.
func (v *Viewer) Round(f heartbeat.Frame) error {
	if v.program == nil {
		return nil
	}
	v.program.Send(frameMsg(f))
	return nil
}

// End shows the final dataset, waits for the program to exit and prints the
// completion banner to the normal screen.
func (v *Viewer) End(data []int) error {
	if v.program == nil {
		return nil
	}
	v.program.Send(endMsg{data: data})
	<-v.done
	if v.runErr != nil {
		return v.runErr
	}
	_, err := fmt.Fprintf(v.out, "%s\n\n%s\n", Plot(data, v.width, DefaultHeight), Title.Render(CompletedBanner))
	return err
}

// Close stops the program if it is still running. It is safe to call more
// than once and after End.
func (v *Viewer) Close() error {
	v.once.Do(func() {
		if v.program == nil {
			return
		}
		v.program.Quit()
		<-v.done
	})
	return v.runErr
}

var _ heartbeat.Renderer = (*Viewer)(nil)
