package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/intellinote/forge/internal/api"
	"github.com/intellinote/forge/internal/audit"
	"github.com/intellinote/forge/internal/chat"
	"github.com/intellinote/forge/internal/monitor"
)

// probeCmd runs one health check off the event loop.
func probeCmd(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		return probeDoneMsg(mon.Probe(context.Background()))
	}
}

// requestCmd performs the backend call described by req. The context carries
// no deadline: AI processing may take minutes and the loading placeholder
// stays visible until the backend answers.
func requestCmd(deps Deps, req *chat.Request) tea.Cmd {
	return func() tea.Msg {
		var (
			res   *api.Result
			err   error
			event *audit.Event
		)

		start := time.Now()
		if req.Attachment != nil {
			event = deps.Log.StartRequest(audit.CategoryUpload, "upload", "/upload/pdf")
			res, err = deps.Client.UploadPDF(context.Background(), req.Attachment, req.Text)
		} else {
			event = deps.Log.StartRequest(audit.CategoryChat, "ask", "/ask/ai")
			res, err = deps.Client.AskText(context.Background(), req.Text)
		}
		elapsed := time.Since(start)

		if err != nil {
			var apiErr *api.Error
			if errors.As(err, &apiErr) {
				event.StatusCode = apiErr.StatusCode
			}
			_ = deps.Log.LogError(event, err)
		} else {
			_ = deps.Log.LogSuccess(event)
		}

		return requestDoneMsg{res: res, err: err, elapsed: elapsed}
	}
}

// Run starts the interactive chat TUI. The caller has already loaded the
// session; a nil session runs the chat in the login-gated state.
func Run(deps Deps) error {
	if deps.Log == nil {
		deps.Log = audit.Global()
	}

	model := NewChatModel(deps)
	deps.Log.SetUser(displayName(deps))
	audit.SetGlobal(deps.Log)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}

func displayName(deps Deps) string {
	if deps.Session == nil {
		return ""
	}
	return deps.Session.DisplayName()
}
