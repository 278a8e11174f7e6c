package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// reportFunc announces the step a command is in. A positive budget shows a
// countdown next to the label.
type reportFunc func(label string, budget time.Duration)

func discardProgress(string, time.Duration) {}

type progressStepMsg struct {
	label    string
	deadline time.Time
}

type progressDoneMsg struct{}

type progressModel struct {
	spinner  spinner.Model
	labelSt  lipgloss.Style
	budgetSt lipgloss.Style
	label    string
	deadline time.Time
	now      func() time.Time
	finished bool
}

func newProgressModel(now func() time.Time) progressModel {
	return progressModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		labelSt:  lipgloss.NewStyle(),
		budgetSt: lipgloss.NewStyle().Faint(true),
		now:      now,
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progressStepMsg:
		m.label = msg.label
		m.deadline = msg.deadline
		return m, nil
	case progressDoneMsg:
		m.finished = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m progressModel) View() string {
	if m.finished || m.label == "" {
		return ""
	}

	view := fmt.Sprintf("%s %s", m.spinner.View(), m.labelSt.Render(m.label))
	if !m.deadline.IsZero() {
		left := max(m.deadline.Sub(m.now()), 0).Round(time.Second)
		view += " " + m.budgetSt.Render(fmt.Sprintf("(%s left)", left))
	}
	return view
}

// runWithProgress runs work while a spinner on output shows the step it
// reported last. The spinner is gone from the terminal when it returns.
func runWithProgress(ctx context.Context, output io.Writer, work func(ctx context.Context, report reportFunc) error) error {
	p := tea.NewProgram(
		newProgressModel(time.Now),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	workErr := make(chan error, 1)
	go func() {
		err := work(ctx, func(label string, budget time.Duration) {
			step := progressStepMsg{label: label}
			if budget > 0 {
				step.deadline = time.Now().Add(budget)
			}
			p.Send(step)
		})
		workErr <- err
		p.Send(progressDoneMsg{})
	}()

	_, runErr := p.Run()
	if err := <-workErr; err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return nil
}
