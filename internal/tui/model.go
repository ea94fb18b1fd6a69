// Package tui implements an interactive chat over the knowledge base.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Answerer is the TUI-facing subset of the query engine.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

type answerMsg struct {
	question string
	answer   string
	err      error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	engine     Answerer
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	waiting    bool
	ready      bool
}

// New creates a chat model bound to a query engine.
func New(engine Answerer) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		engine:   engine,
		input:    ti,
		viewport: vp,
		status:   "Ready. Ctrl+C to quit.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		vh := msg.Height - fh - ih - 3
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, questionStyle.Render("You: ")+q)
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.ask(q)
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Ready. Ctrl+C to quit."
			m.transcript = append(m.transcript, answerStyle.Render("Answer: ")+msg.answer, "")
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Omniquery Chat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.engine.Answer(context.Background(), question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "Ask anything about the ingested content."
	}
	return strings.Join(m.transcript, "\n")
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
