package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spetersoncode/strand"
	"github.com/spetersoncode/strand/chat"
	"github.com/spetersoncode/strand/transcript"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	planStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Italic(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle  = lipgloss.NewStyle().Reverse(true)
)

// renderMsg carries a fresh transcript projection from the controller.
type renderMsg struct {
	nodes []transcript.Node
}

// conversationsMsg carries the latest conversation list.
type conversationsMsg struct {
	ids []string
}

// runDoneMsg signals that a Submit call returned.
type runDoneMsg struct {
	err error
}

// openDoneMsg signals that an Open call returned.
type openDoneMsg struct {
	err error
}

type model struct {
	ctrl *chat.Controller

	input    textinput.Model
	viewport viewport.Model
	ready    bool

	nodes    []transcript.Node
	revealed bool // plan disclosures expanded

	convos []string
	cursor int

	busy   bool // a run or rehydration is in flight; input disabled
	status string
}

func newModel(ctrl *chat.Controller) model {
	input := textinput.New()
	input.Placeholder = "ask the agent..."
	input.Focus()

	return model{
		ctrl:  ctrl,
		input: input,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshCmd())
}

func (m model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.ctrl.RefreshConversations(context.Background()); err != nil {
			return conversationsMsg{}
		}
		return nil
	}
}

func (m model) submitCmd(prompt string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return runDoneMsg{err: ctrl.Submit(context.Background(), prompt)}
	}
}

func (m model) openCmd(threadID string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return openDoneMsg{err: ctrl.Open(context.Background(), threadID)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.viewport.SetContent(m.transcriptView())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.busy {
				return m, nil
			}
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" {
				return m, nil
			}
			m.input.Reset()
			m.busy = true
			m.status = "streaming..."
			return m, m.submitCmd(prompt)

		case "ctrl+n":
			if m.busy {
				return m, nil
			}
			m.ctrl.NewThread()
			m.status = "new conversation"
			return m, nil

		case "ctrl+p":
			if len(m.convos) > 0 {
				m.cursor = (m.cursor - 1 + len(m.convos)) % len(m.convos)
			}
			return m, nil

		case "ctrl+j":
			if len(m.convos) > 0 {
				m.cursor = (m.cursor + 1) % len(m.convos)
			}
			return m, nil

		case "ctrl+o":
			if m.busy || len(m.convos) == 0 {
				return m, nil
			}
			m.busy = true
			m.status = "opening " + m.convos[m.cursor]
			return m, m.openCmd(m.convos[m.cursor])

		case "ctrl+e":
			m.revealed = !m.revealed
			m.viewport.SetContent(m.transcriptView())
			return m, nil
		}

	case renderMsg:
		m.nodes = msg.nodes
		if m.ready {
			m.viewport.SetContent(m.transcriptView())
			m.viewport.GotoBottom()
		}
		return m, nil

	case conversationsMsg:
		m.convos = msg.ids
		if m.cursor >= len(m.convos) {
			m.cursor = 0
		}
		return m, nil

	case runDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
		} else {
			m.status = string(m.ctrl.State())
		}
		return m, nil

	case openDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
		} else {
			m.status = "opened " + m.ctrl.ThreadID()
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// transcriptView renders the projected nodes. Disclosure nodes start
// collapsed; ctrl+e reveals the plan steps.
func (m model) transcriptView() string {
	var b strings.Builder
	for _, node := range m.nodes {
		switch node.Kind {
		case transcript.KindText:
			if node.Role == strand.DisplayUser {
				b.WriteString(userStyle.Render("you: ") + node.Content)
			} else {
				b.WriteString(assistantStyle.Render("agent: ") + node.Content)
			}
		case transcript.KindDisclosure:
			if m.revealed {
				b.WriteString(planStyle.Render("[" + node.Title + "]"))
				for i, step := range node.Steps {
					b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
				}
			} else {
				b.WriteString(planStyle.Render(fmt.Sprintf("[%s: %d steps, ctrl+e to reveal]", node.Title, len(node.Steps))))
			}
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m model) conversationsView() string {
	if len(m.convos) == 0 {
		return statusStyle.Render("no stored conversations")
	}
	parts := make([]string, len(m.convos))
	for i, id := range m.convos {
		if i == m.cursor {
			parts[i] = selectedStyle.Render(id)
		} else {
			parts[i] = id
		}
	}
	return strings.Join(parts, "  ")
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := statusStyle.Render(fmt.Sprintf("strand - %s (%s)", m.ctrl.ThreadID(), m.ctrl.State()))
	footer := fmt.Sprintf("%s\n%s\n%s",
		m.conversationsView(),
		m.input.View(),
		statusStyle.Render(m.status+"  [enter send / ctrl+n new / ctrl+p,ctrl+j select / ctrl+o open / ctrl+e reveal / esc quit]"))

	return fmt.Sprintf("%s\n\n%s\n%s", header, m.viewport.View(), footer)
}
