// Package tui provides the Bubble Tea interactive chat interface.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/intellinote/forge/internal/api"
	"github.com/intellinote/forge/internal/audit"
	"github.com/intellinote/forge/internal/chat"
	"github.com/intellinote/forge/internal/intake"
	"github.com/intellinote/forge/internal/monitor"
	"github.com/intellinote/forge/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	aiStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	inputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	focusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205")).
				Padding(0, 1)

	attachmentBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("42")).
				Bold(true).
				Padding(0, 1)
)

// Deps bundles the pre-initialized collaborators the chat model drives.
type Deps struct {
	Client  *api.Client
	Store   *session.Store
	Monitor *monitor.Monitor
	Log     *audit.Logger
	WorkDir string
	Session *session.Session
}

// Messages delivered back into the event loop by async commands.
type (
	probeDoneMsg monitor.Outcome
	requestDoneMsg struct {
		res     *api.Result
		err     error
		elapsed time.Duration
	}
	forceLoginMsg struct{}
)

// ChatModel is the main TUI model for the interactive chat.
type ChatModel struct {
	deps Deps
	conv *chat.Conversation

	ready    bool
	quitting bool
	exitNote string
	banner   string

	// UI components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	picker   *PDFPicker
	mode     inputMode
	width    int
	height   int

	// Pending work from slash commands (picked up on the next tick)
	pendingPrompt string
	queueProbe    bool
}

// NewChatModel creates the chat TUI with pre-initialized components.
func NewChatModel(deps Deps) ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textarea.New()
	ti.Placeholder = "Ask about your PDF... (Enter to send, @ to attach)"
	ti.CharLimit = 4000
	ti.SetWidth(80)
	ti.SetHeight(3)
	ti.Focus()

	return ChatModel{
		deps:    deps,
		conv:    chat.New(deps.Session != nil),
		spinner: s,
		input:   ti,
	}
}

// Conversation exposes the underlying state machine.
func (m ChatModel) Conversation() *chat.Conversation { return m.conv }

// Init starts the spinner and fires the first health probe.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, probeCmd(m.deps.Monitor))
}

// Update handles messages.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.mode == modePicker {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case probeDoneMsg:
		m.conv.RecordProbe(monitor.Outcome(msg))
		m.refreshTranscript()
		return m, nil

	case requestDoneMsg:
		return m.handleRequestDone(msg)

	case forceLoginMsg:
		m.quitting = true
		m.exitNote = "Session expired. Run 'forge login' to continue."
		return m, tea.Quit

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}

	if m.conv.State() != chat.StateSubmitting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	submitting := m.conv.State() == chat.StateSubmitting

	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "@":
		if !submitting {
			m.mode = modePicker
			if m.picker == nil {
				m.picker = NewPDFPicker(m.deps.WorkDir, m.width-4, 10)
			}
			m.picker.LoadFiles()
			return m, nil
		}

	case "ctrl+r":
		// Manual re-probe; every probe reports its own status message.
		return m, probeCmd(m.deps.Monitor)

	case "ctrl+x":
		if m.conv.Pending() != nil {
			m.conv.RemoveAttachment()
			m.banner = ""
			return m, nil
		}

	case "enter":
		return m.handleEnterKey()

	case "alt+enter", "ctrl+j":
		if !submitting {
			m.input.SetValue(m.input.Value() + "\n")
			return m, nil
		}

	case "up", "down", "pgup", "pgdown":
		if submitting {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	if !submitting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ChatModel) handleEnterKey() (tea.Model, tea.Cmd) {
	if m.conv.State() == chat.StateSubmitting {
		return m, nil
	}

	draft := m.input.Value()
	if isSlashCommand(draft) {
		m.input.SetValue("")
		m.banner = executeSlashCommand(&m, draft)
		m.refreshTranscript()
		return m, nil
	}

	if strings.TrimSpace(draft) == "" && m.conv.Pending() == nil {
		// Let the textarea insert the newline.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return m, cmd
	}

	return m.submit(draft, true)
}

// submit runs the draft (or a canned prompt) through the state machine and,
// when accepted, launches the backend request.
func (m ChatModel) submit(text string, clearDraft bool) (tea.Model, tea.Cmd) {
	req, serr := m.conv.Submit(text)
	if serr != nil {
		m.banner = serr.Message
		if serr.RequiresLogin {
			return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return forceLoginMsg{} })
		}
		return m, nil
	}

	if clearDraft {
		m.input.SetValue("")
	}
	m.banner = ""
	m.refreshTranscript()
	return m, tea.Batch(m.spinner.Tick, requestCmd(m.deps, req))
}

func (m ChatModel) handleRequestDone(msg requestDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		f := m.conv.CompleteFailure(msg.err)
		m.banner = f.Message
		m.refreshTranscript()
		if f.RequiresLogin {
			// Teardown is idempotent; a second 401 clears an already-empty store.
			_ = m.deps.Store.Clear()
			return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return forceLoginMsg{} })
		}
		return m, nil
	}

	m.conv.CompleteSuccess(msg.res, msg.elapsed)
	m.banner = ""
	m.refreshTranscript()
	return m, nil
}

func (m ChatModel) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 2
	statusHeight := 1
	inputHeight := 5
	vpWidth := msg.Width
	vpHeight := msg.Height - headerHeight - statusHeight - inputHeight

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.refreshTranscript()

	m.input.SetWidth(msg.Width - 4)

	if m.picker != nil {
		m.picker.SetSize(m.width-4, 10)
	}

	return m, nil
}

func (m ChatModel) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	if m.queueProbe {
		m.queueProbe = false
		cmds = append(cmds, probeCmd(m.deps.Monitor))
	}

	// Canned prompts bypass the draft entirely.
	if m.pendingPrompt != "" && m.conv.State() != chat.StateSubmitting {
		prompt := m.pendingPrompt
		m.pendingPrompt = ""
		model, submitCmd := m.submit(prompt, false)
		cm := model.(ChatModel)
		cm.spinner = m.spinner
		return cm, tea.Batch(append(cmds, submitCmd)...)
	}

	return m, tea.Batch(cmds...)
}

// updatePicker handles input while the PDF picker overlay is open.
func (m ChatModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			m.mode = modeChat
			return m, nil

		case tea.KeyEnter:
			if path, ok := m.picker.SelectedItem(); ok {
				m.attachFile(path)
			}
			m.mode = modeChat
			m.refreshTranscript()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// attachFile stages a picked file, surfacing intake rejections in the banner.
func (m *ChatModel) attachFile(path string) {
	att, err := intake.FromPath(path)
	if err != nil {
		m.banner = err.Error()
		return
	}
	if err := m.conv.Attach(att); err != nil {
		m.banner = err.Error()
		return
	}
	m.banner = ""
}

// queuePrompt sets a canned prompt to be submitted on the next tick.
func (m *ChatModel) queuePrompt(prompt string) {
	m.pendingPrompt = prompt
}

func (m *ChatModel) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
