package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/intellinote/forge/internal/chat"
)

// SlashCommand represents a slash command handler.
type SlashCommand struct {
	Name        string
	Description string
	Handler     func(m *ChatModel, args string) string
}

// builtinCommands returns all available slash commands. The quick actions
// submit their canned prompt directly, bypassing the draft.
func builtinCommands() map[string]SlashCommand {
	cmds := map[string]SlashCommand{
		"help": {
			Name:        "help",
			Description: "Show available commands",
			Handler:     cmdHelp,
		},
		"new": {
			Name:        "new",
			Description: "Start a fresh conversation",
			Handler:     cmdNew,
		},
		"status": {
			Name:        "status",
			Description: "Re-check backend connectivity",
			Handler:     cmdStatus,
		},
	}

	quick := map[string]chat.QuickAction{
		"summarize": chat.QuickActions[0],
		"about":     chat.QuickActions[1],
		"keypoints": chat.QuickActions[2],
		"quick":     chat.QuickActions[3],
	}
	for name, qa := range quick {
		prompt := qa.Prompt
		label := qa.Label
		cmds[name] = SlashCommand{
			Name:        name,
			Description: label + ": \"" + prompt + "\"",
			Handler: func(m *ChatModel, args string) string {
				m.queuePrompt(prompt)
				return ""
			},
		}
	}

	return cmds
}

// isSlashCommand checks if input starts with /.
func isSlashCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// executeSlashCommand parses and runs a slash command. The returned string
// goes to the status banner; empty means nothing to report.
func executeSlashCommand(m *ChatModel, input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}

	parts := strings.SplitN(input[1:], " ", 2)
	cmdName := strings.ToLower(parts[0])
	args := ""
	if len(parts) > 1 {
		args = parts[1]
	}

	if cmd, ok := builtinCommands()[cmdName]; ok {
		return cmd.Handler(m, args)
	}

	return fmt.Sprintf("Unknown command: /%s. Type /help for available commands.", cmdName)
}

// Command handlers

func cmdHelp(m *ChatModel, args string) string {
	cmds := builtinCommands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Commands: ")
	for i, name := range names {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("/" + name)
	}
	sb.WriteString(" │ @: attach PDF │ Ctrl+X: remove attachment │ Ctrl+R: reconnect")
	return sb.String()
}

func cmdNew(m *ChatModel, args string) string {
	m.conv = chat.New(m.deps.Session != nil)
	return ""
}

func cmdStatus(m *ChatModel, args string) string {
	// The actual probe runs async; queue it the same way Ctrl+R does.
	m.queueProbe = true
	return ""
}
