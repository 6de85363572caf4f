package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSlashCommand(t *testing.T) {
	assert.True(t, isSlashCommand("/help"))
	assert.True(t, isSlashCommand("  /summarize"))
	assert.False(t, isSlashCommand("hello /world"))
	assert.False(t, isSlashCommand(""))
}

func TestExecuteSlashCommandUnknown(t *testing.T) {
	m := NewChatModel(Deps{})
	out := executeSlashCommand(&m, "/bogus")
	assert.Contains(t, out, "Unknown command: /bogus")
}

func TestQuickActionCommandsQueuePrompts(t *testing.T) {
	tests := []struct {
		command string
		prompt  string
	}{
		{"/summarize", "Summarize this document"},
		{"/about", "What is this document about?"},
		{"/keypoints", "Extract key points from this document"},
		{"/quick", "Provide a quick analysis"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			m := NewChatModel(Deps{})
			out := executeSlashCommand(&m, tt.command)
			assert.Empty(t, out)
			assert.Equal(t, tt.prompt, m.pendingPrompt)
		})
	}
}

func TestNewCommandResetsConversation(t *testing.T) {
	m := NewChatModel(Deps{})
	oldID := m.conv.ID()

	out := executeSlashCommand(&m, "/new")
	require.Empty(t, out)
	assert.NotEqual(t, oldID, m.conv.ID())
	assert.Equal(t, 1, m.conv.Len())
}

func TestStatusCommandQueuesProbe(t *testing.T) {
	m := NewChatModel(Deps{})
	executeSlashCommand(&m, "/status")
	assert.True(t, m.queueProbe)
}

func TestHelpListsAllCommands(t *testing.T) {
	m := NewChatModel(Deps{})
	out := executeSlashCommand(&m, "/help")
	for _, name := range []string{"/help", "/new", "/status", "/summarize", "/about", "/keypoints", "/quick"} {
		assert.Contains(t, out, name)
	}
}
