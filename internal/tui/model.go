package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"supportrag/internal/domain"
)

// Model is the Bubble Tea model for the interactive chat client.
type Model struct {
	service  domain.AnswerService
	input    textinput.Model
	viewport viewport.Model
	status   string
	header   string
	ready    bool
}

// New creates a new TUI model around the answering service. The index
// status line is rendered in the header.
func New(service domain.AnswerService, st domain.Status) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your support logs and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	header := fmt.Sprintf("Index: %s (%d documents)", st.State, st.DocCount)
	return Model{service: service, input: ti, viewport: vp, header: header, status: "Ready. Type a question."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.Ask(context.Background(), q, "")
				if err != nil {
					m.status = "Error: " + err.Error()
				} else {
					m.status = fmt.Sprintf("Answered %q", q)
					m.viewport.SetContent(renderAnswer(res))
				}
				m.input.SetValue("")
				return m, nil
			}
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Support Log Assistant") + "  " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.header)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + body + "\n" + input + "\n" + status
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	escalateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderAnswer(a domain.Answer) string {
	var sb strings.Builder
	sb.WriteString(a.Answer)
	if a.Escalation {
		sb.WriteString("\n\n")
		sb.WriteString(escalateStyle.Render("⚠ Flagged for escalation to a human agent."))
	}
	if len(a.Sources) > 0 {
		sb.WriteString("\n\nSources:\n")
		for i, src := range a.Sources {
			line := fmt.Sprintf("[%d] score=%.3f  %s", i+1, src.Score, src.SourceID)
			sb.WriteString(sourceStyle.Render(line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
