package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressBar reports the progress of a determinate task.
type ProgressBar interface {
	// Increment advances the bar by n and shows title as the current item.
	Increment(n int, title string)
	// Done completes the bar. Calling it more than once is safe.
	Done()
}

// StartProgress returns an animated bar, or a log-line bar when the UI is
// headless or colorless.
func StartProgress(theme *Theme, hm *HeadlessManager, w io.Writer, title string, total int) ProgressBar {
	if hm.IsHeadless() || theme.NoColor {
		return newLogProgressBar(title, total, w)
	}
	return newInteractiveProgressBar(theme, title, total, w)
}

type progressIncrMsg struct {
	n     int
	title string
}

type progressDoneMsg struct{}

// progressModel is the bubbletea model behind the animated bar.
type progressModel struct {
	bar     progress.Model
	title   string
	current int
	total   int
	done    bool
}

func newProgressModel(theme *Theme, title string, total int) progressModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	if !theme.NoColor {
		bar = progress.New(
			progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
			progress.WithWidth(40),
		)
	}
	return progressModel{bar: bar, title: title, total: total}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressIncrMsg:
		m.current = min(m.current+msg.n, m.total)
		if msg.title != "" {
			m.title = msg.title
		}
		return m, nil
	case progressDoneMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return m.bar.ViewAs(pct) + " " + fmt.Sprintf("[%d/%d] %s\n", m.current, m.total, m.title)
}

// interactiveProgressBar drives a progressModel running in its own program.
type interactiveProgressBar struct {
	program *tea.Program
	once    sync.Once
}

func newInteractiveProgressBar(theme *Theme, title string, total int, w io.Writer) *interactiveProgressBar {
	p := tea.NewProgram(newProgressModel(theme, title, total), tea.WithOutput(w))
	go func() {
		_, _ = p.Run()
	}()
	return &interactiveProgressBar{program: p}
}

func (b *interactiveProgressBar) Increment(n int, title string) {
	b.program.Send(progressIncrMsg{n: n, title: title})
}

func (b *interactiveProgressBar) Done() {
	b.once.Do(func() {
		b.program.Send(progressDoneMsg{})
		b.program.Wait()
	})
}

// logProgressBar writes one line per increment.
type logProgressBar struct {
	title   string
	total   int
	current int
	writer  io.Writer
	done    bool
}

func newLogProgressBar(title string, total int, w io.Writer) *logProgressBar {
	return &logProgressBar{title: title, total: total, writer: w}
}

func (b *logProgressBar) Increment(n int, title string) {
	b.current = min(b.current+n, b.total)
	if title != "" {
		b.title = title
	}
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, b.title)
}

func (b *logProgressBar) Done() {
	if b.done {
		return
	}
	b.done = true
	if b.current < b.total {
		b.current = b.total
		_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, b.title)
	}
}
