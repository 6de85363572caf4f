package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/intellinote/forge/internal/chat"
	"github.com/intellinote/forge/internal/intake"
	"github.com/intellinote/forge/internal/monitor"
	"github.com/intellinote/forge/internal/render"
	forgestrings "github.com/intellinote/forge/internal/strings"
)

// View renders the TUI.
func (m ChatModel) View() string {
	if m.quitting {
		if m.exitNote != "" {
			return m.exitNote + "\n"
		}
		return "Goodbye!\n"
	}

	if !m.ready {
		return fmt.Sprintf("\n  %s Connecting...", m.spinner.View())
	}

	var b strings.Builder

	header := titleStyle.Render("⚡ IntelliNote Forge") + "  " +
		metaStyle.Render(m.deps.Client.BaseURL())
	b.WriteString(header + "\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	b.WriteString(m.renderStatus() + "\n")
	b.WriteString(m.renderInputArea())

	return b.String()
}

func (m ChatModel) renderInputArea() string {
	var b strings.Builder

	if m.mode == modePicker && m.picker != nil {
		pickerStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1).
			Width(m.width - 4)
		b.WriteString(pickerStyle.Render(m.picker.View()))
		b.WriteString("\n")
		b.WriteString(systemStyle.Render("  ↑↓: navigate │ Enter: attach │ Esc: cancel"))
		return b.String()
	}

	if m.conv.State() == chat.StateSubmitting {
		b.WriteString(fmt.Sprintf("  %s Waiting for response...", m.spinner.View()))
		return b.String()
	}

	if att := m.conv.Pending(); att != nil {
		b.WriteString(attachmentBadgeStyle.Render("📄 "+att.Name) + " " +
			metaStyle.Render(intake.FormatSize(att.Size)+" · Ctrl+X to remove") + "\n")
	}

	var inputBox string
	if m.input.Focused() {
		inputBox = focusedInputStyle.Width(m.width - 4).Render(m.input.View())
	} else {
		inputBox = inputBorderStyle.Width(m.width - 4).Render(m.input.View())
	}
	b.WriteString(inputBox)

	return b.String()
}

func (m ChatModel) renderStatus() string {
	var parts []string

	switch m.conv.Connection() {
	case monitor.StatusConnected:
		parts = append(parts, successStyle.Render("●")+" Backend")
	case monitor.StatusError:
		parts = append(parts, errorStyle.Render("○")+" Backend")
	default:
		parts = append(parts, metaStyle.Render("◌")+" Backend")
	}

	if m.deps.Session != nil {
		parts = append(parts, userStyle.Render("▸ "+m.deps.Session.DisplayName()))
	}

	if m.banner != "" {
		parts = append(parts, errorStyle.Render(render.Truncate(m.banner, 60)))
	}

	if m.conv.State() == chat.StateSubmitting {
		parts = append(parts, "↑↓: scroll │ Ctrl+C: quit")
	} else {
		parts = append(parts, "Enter: send │ @: attach PDF │ /: commands │ Ctrl+R: reconnect │ Esc: quit")
	}

	return statusBarStyle.Width(m.width).Render(strings.Join(parts, " │ "))
}

// renderTranscript formats the full message log for the viewport.
func (m ChatModel) renderTranscript() string {
	var b strings.Builder
	for _, msg := range m.conv.Messages() {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	content := b.String()
	if m.width > 4 {
		content = forgestrings.WordWrap(content, m.width-4)
	}
	return content
}

func (m ChatModel) renderMessage(msg chat.Message) string {
	var b strings.Builder
	ts := metaStyle.Render(msg.Timestamp.Format("15:04"))

	switch {
	case msg.IsLoading:
		b.WriteString(fmt.Sprintf("%s %s %s\n", ts, m.spinner.View(), systemStyle.Render(msg.Text)))

	case msg.IsError:
		b.WriteString(fmt.Sprintf("%s %s\n", ts, errorStyle.Render(msg.Text)))
		if msg.RequiresLogin {
			b.WriteString("     " + systemStyle.Render("Run 'forge login' to authenticate") + "\n")
		}

	case msg.IsWelcome:
		b.WriteString(fmt.Sprintf("%s %s\n", ts, welcomeStyle.Render(msg.Text)))

	case msg.Sender == chat.SenderSystem:
		b.WriteString(fmt.Sprintf("%s %s\n", ts, systemStyle.Render(msg.Text)))

	case msg.Sender == chat.SenderUser:
		b.WriteString(fmt.Sprintf("%s %s %s\n", ts, userStyle.Render("You ▸"), msg.Text))
		if msg.FileName != "" {
			b.WriteString("     " + metaStyle.Render(fmt.Sprintf("📄 %s (%s)", msg.FileName, msg.FileSize)) + "\n")
		}

	default: // AI answer
		b.WriteString(fmt.Sprintf("%s %s %s\n", ts, successStyle.Render("AI ▸"), aiStyle.Render(msg.Text)))
		for _, kp := range msg.KeyPoints {
			b.WriteString("     " + aiStyle.Render("• "+kp) + "\n")
		}
		if msg.ModelUsed != "" {
			meta := msg.ModelUsed
			if msg.ProcessingTime > 0 {
				meta += fmt.Sprintf(" · %.2fs", msg.ProcessingTime)
			}
			b.WriteString("     " + metaStyle.Render(meta) + "\n")
		}
	}

	return b.String()
}
