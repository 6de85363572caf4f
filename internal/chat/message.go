// Package chat owns the conversation state machine: the ordered message log,
// the pending attachment, and the one-request-at-a-time submission lifecycle.
package chat

import "time"

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "ai"
	SenderSystem Sender = "system"
)

// Message is one entry in the conversation log. Messages are immutable once
// appended; the only replacement is the loading placeholder resolving into
// its terminal message, done as remove-then-append under the same ID.
type Message struct {
	ID        int64
	Text      string
	Sender    Sender
	Timestamp time.Time

	IsLoading     bool
	IsError       bool
	IsWelcome     bool
	IsStatus      bool
	RequiresLogin bool

	// Set when the message carries or references an attachment.
	FileName string
	FileSize string

	// AI answer extras.
	KeyPoints      []string
	ProcessingTime float64 // seconds
	ModelUsed      string
}

// QuickAction is a canned prompt submitted verbatim, bypassing the draft.
type QuickAction struct {
	Label  string
	Prompt string
}

// QuickActions are the built-in prompt shortcuts, in display order.
var QuickActions = []QuickAction{
	{Label: "Summarize", Prompt: "Summarize this document"},
	{Label: "Ask Question", Prompt: "What is this document about?"},
	{Label: "Key Points", Prompt: "Extract key points from this document"},
	{Label: "Quick Analysis", Prompt: "Provide a quick analysis"},
}
