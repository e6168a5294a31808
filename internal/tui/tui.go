// Package tui is an interactive chat over one journalist's indexed articles.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bylines/internal/rag"
)

// Answerer answers a question scoped to one journalist.
type Answerer interface {
	Ask(ctx context.Context, journalistID, question string) (*rag.Answer, error)
}

type exchange struct {
	question string
	answer   string
	sources  []string
}

type model struct {
	answerer     Answerer
	journalistID string
	journalist   string

	history []exchange
	input   string
	waiting bool
	errText string
	width   int
	height  int
}

type answerMsg struct {
	question string
	answer   *rag.Answer
	err      error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	sourceStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func initialModel(answerer Answerer, journalistID, journalistName string) model {
	return model{
		answerer:     answerer,
		journalistID: journalistID,
		journalist:   journalistName,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.history = append(m.history, exchange{
			question: msg.question,
			answer:   msg.answer.Text,
			sources:  msg.answer.Sources,
		})

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			question := strings.TrimSpace(m.input)
			if question == "" {
				return m, nil
			}
			m.input = ""
			m.errText = ""
			m.waiting = true
			return m, m.ask(question)
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				runes := []rune(m.input)
				m.input = string(runes[:len(runes)-1])
			}
		case tea.KeyRunes:
			if !m.waiting {
				m.input += string(msg.Runes)
			}
		case tea.KeySpace:
			if !m.waiting {
				m.input += " "
			}
		}
	}

	return m, nil
}

func (m model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.answerer.Ask(context.Background(), m.journalistID, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Ask about %s's articles", m.journalist)))
	b.WriteString("\n\n")

	for _, ex := range m.history {
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		b.WriteString(ex.answer)
		b.WriteString("\n")
		if len(ex.sources) > 0 {
			b.WriteString(sourceStyle.Render("Sources: " + strings.Join(ex.sources, "; ")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.errText != "" {
		b.WriteString(errorStyle.Render("Error: " + m.errText))
		b.WriteString("\n\n")
	}

	if m.waiting {
		b.WriteString("Thinking...\n")
	} else {
		b.WriteString(promptStyle.Render("> "))
		b.WriteString(m.input)
		b.WriteString("_")
		b.WriteString("\n")
	}

	b.WriteString(sourceStyle.Render("\n[enter] Ask | [esc] Quit"))
	return b.String()
}

// StartChat runs the chat UI until the user quits.
func StartChat(answerer Answerer, journalistID, journalistName string) error {
	p := tea.NewProgram(initialModel(answerer, journalistID, journalistName), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run chat UI: %w", err)
	}
	return nil
}
