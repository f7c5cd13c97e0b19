package confirm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/gha-rerun/internal/ui"
)

type Model struct {
	Title    string
	Message  string
	done     bool
	selected bool // true = confirm selected
	answer   bool
}

func New(title, message string) Model {
	return Model{Title: title, Message: message}
}

// Done reports whether the user has answered.
func (m Model) Done() bool { return m.done }

// Confirmed is the user's answer. It is false until Done.
func (m Model) Confirmed() bool { return m.done && m.answer }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, ui.Keys.Confirm):
		return m.finish(true)
	case key.Matches(keyMsg, ui.Keys.Deny), key.Matches(keyMsg, ui.Keys.Quit):
		return m.finish(false)
	case key.Matches(keyMsg, ui.Keys.Submit):
		return m.finish(m.selected)
	case key.Matches(keyMsg, ui.Keys.Toggle):
		m.selected = !m.selected
	}
	return m, nil
}

func (m Model) finish(answer bool) (tea.Model, tea.Cmd) {
	m.done = true
	m.answer = answer
	return m, tea.Quit
}

func (m Model) View() string {
	if m.done {
		return ""
	}

	yes := ui.StyleChoice
	no := ui.StyleChoice
	if m.selected {
		yes = ui.StyleChoiceActive.Background(ui.ColorSuccess)
	} else {
		no = ui.StyleChoiceActive.Background(ui.ColorFailure)
	}

	var help []string
	for _, b := range ui.Keys.ShortHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s  %s\n\n%s",
		ui.StyleWarning.Bold(true).Render(m.Title), m.Message,
		yes.Render("Yes"), no.Render("No"),
		ui.StyleMuted.Render(strings.Join(help, " | ")))

	return ui.StyleDialog.Render(content)
}

// Gate asks for confirmation on a terminal before a rerun is requested.
type Gate struct {
	Title  string
	input  io.Reader
	output io.Writer
}

func NewGate(input io.Reader, output io.Writer) *Gate {
	return &Gate{Title: "Rerun workflow?", input: input, output: output}
}

// Confirm blocks until the user answers or ctx is done.
func (g *Gate) Confirm(ctx context.Context, prompt string) (bool, error) {
	p := tea.NewProgram(New(g.Title, prompt),
		tea.WithContext(ctx),
		tea.WithInput(g.input),
		tea.WithOutput(g.output),
	)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return false, fmt.Errorf("confirm prompt: unexpected model %T", final)
	}
	return m.Confirmed(), nil
}
