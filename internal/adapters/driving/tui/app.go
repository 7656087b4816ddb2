// Package tui provides an interactive question prompt built on Bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/dvsage-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// exchange is one completed question/answer pair in the transcript.
type exchange struct {
	question string
	answer   string
	sources  int
}

// answerMsg delivers a finished pipeline run back into the update loop.
type answerMsg struct {
	question string
	result   domain.AskResult
	err      error
}

// App is the interactive ask loop following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles   *styles.Styles
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []exchange
	waiting    bool
	err        error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Спросите о схеме карточек..."
	input.Focus()
	input.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		input:   input,
		spinner: sp,
	}, nil
}

// WithContext sets the context used for pipeline calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("dvsage - Schema Q&A"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport = viewport.New(msg.Width, max(msg.Height-5, 3))
		a.viewport.SetContent(a.renderTranscript())
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			if a.waiting {
				return a, nil
			}
			question := strings.TrimSpace(a.input.Value())
			if question == "" {
				return a, nil
			}
			a.input.Reset()
			a.waiting = true
			a.err = nil
			return a, tea.Batch(a.spinner.Tick, a.ask(question))
		}

	case answerMsg:
		a.waiting = false
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.transcript = append(a.transcript, exchange{
				question: msg.question,
				answer:   msg.result.Answer,
				sources:  len(msg.result.Documents),
			})
		}
		a.viewport.SetContent(a.renderTranscript())
		a.viewport.GotoBottom()
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("dvsage"))
	b.WriteString("\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")

	if a.waiting {
		b.WriteString(a.spinner.View())
		b.WriteString(a.styles.Muted.Render(" thinking..."))
	} else {
		b.WriteString(a.styles.InputField.Render(a.input.View()))
	}
	b.WriteString("\n")

	if a.err != nil {
		b.WriteString(a.styles.Error.Render(fmt.Sprintf("Error: %v", a.err)))
	} else {
		b.WriteString(a.styles.Muted.Render("Enter: ask · Esc: quit"))
	}

	return b.String()
}

// ask runs the pipeline off the update loop.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.ports.Ask.Ask(a.ctx, question, domain.AskOptions{})
		return answerMsg{question: question, result: result, err: err}
	}
}

func (a *App) renderTranscript() string {
	if len(a.transcript) == 0 {
		return a.styles.Muted.Render("No questions yet.")
	}

	var b strings.Builder
	for i, ex := range a.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(a.styles.Question.Render("> " + ex.question))
		b.WriteString("\n")
		b.WriteString(a.styles.Answer.Render(ex.answer))
		b.WriteString("\n")
		b.WriteString(a.styles.Muted.Render(fmt.Sprintf("(%d schema chunks used)", ex.sources)))
	}
	return b.String()
}
