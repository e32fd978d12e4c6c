// Package ui provides the terminal progress display for long searches.
package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type progressMsg float64

type doneMsg struct{}

type progressModel struct {
	title   string
	bar     progress.Model
	percent float64
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.percent = float64(msg)
		return m, nil
	case doneMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if w := msg.Width - 4; w > 10 {
			m.bar.Width = w
		}
		return m, nil
	}
	return m, nil
}

func (m progressModel) View() string {
	return m.title + "\n" + m.bar.ViewAs(m.percent) + "\n"
}

// Progress drives a progress bar from another goroutine.
type Progress struct {
	prog *tea.Program
}

// StartProgress launches the progress display. Callers must eventually call
// Done to stop it.
func StartProgress(title string) *Progress {
	m := progressModel{
		title: title,
		bar:   progress.New(progress.WithDefaultGradient()),
	}
	p := tea.NewProgram(m)
	go func() {
		_, _ = p.Run()
	}()
	return &Progress{prog: p}
}

// Set updates the completed fraction.
func (p *Progress) Set(done, total int) {
	if total <= 0 {
		return
	}
	p.prog.Send(progressMsg(float64(done) / float64(total)))
}

// Done stops the display and waits for the terminal to be restored.
func (p *Progress) Done() {
	p.prog.Send(doneMsg{})
	p.prog.Wait()
}
