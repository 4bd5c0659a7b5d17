package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/mindsync/internal/cli/formatter"
	"github.com/alexanderramin/mindsync/internal/conversation"
	"github.com/alexanderramin/mindsync/internal/screening"
)

// footerLines is the height taken below the transcript by the status and
// input lines.
const footerLines = 3

type replyMsg struct {
	reply *conversation.Reply
	err   error
}

// chatModel is the full-screen chat: a scrolling transcript above a
// single-line input.
type chatModel struct {
	ctx       context.Context
	svc       *conversation.Service
	sessionID string

	input    textinput.Model
	viewport viewport.Model
	lines    []string
	waiting  bool
}

func newChatModel(ctx context.Context, svc *conversation.Service, sessionID string) *chatModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 2000

	return &chatModel{
		ctx:       ctx,
		svc:       svc,
		sessionID: sessionID,
		input:     ti,
		viewport:  viewport.New(80, 20),
		lines:     []string{formatter.Dim(chatHint)},
	}
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-footerLines, 1)
		m.refresh()
		return m, nil

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, formatter.StyleRed.Render("error: "+msg.err.Error()))
		} else {
			m.lines = append(m.lines, formatter.FormatReply(msg.reply.Text, msg.reply.Result.IsCrisis))
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if text == "" || m.waiting {
		return m, nil
	}
	if screening.IsExit(text) || strings.EqualFold(text, "menu") {
		return m, tea.Quit
	}

	m.lines = append(m.lines, formatter.StyleBlue.Render("You:")+" "+text)
	m.waiting = true
	m.refresh()

	ctx, svc, id := m.ctx, m.svc, m.sessionID
	return m, func() tea.Msg {
		reply, err := svc.SendMessage(ctx, id, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *chatModel) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m *chatModel) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.waiting {
		b.WriteString(formatter.Dim("MindSync is typing..."))
	}
	b.WriteString("\n")
	b.WriteString(formatter.StylePurple.Render("you") + formatter.Dim("> "))
	b.WriteString(m.input.View())
	return b.String()
}
