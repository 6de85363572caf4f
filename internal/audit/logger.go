package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intellinote/forge/internal/config"
)

// Logger writes one JSON line per completed event. The default sink is
// stderr; FORGE_AUDIT_LOG redirects it to a file.
type Logger struct {
	mu             sync.Mutex
	conversationID string
	user           string
	output         io.Writer
}

// LoggerOption configures the logger.
type LoggerOption func(*Logger)

// WithConversation sets the conversation ID stamped on every event.
func WithConversation(id string) LoggerOption {
	return func(l *Logger) {
		l.conversationID = id
	}
}

// WithUser sets the acting user's display name.
func WithUser(name string) LoggerOption {
	return func(l *Logger) {
		l.user = name
	}
}

// WithOutput sets the output sink.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *Logger) {
		l.output = w
	}
}

// NewLogger creates a new audit logger.
func NewLogger(opts ...LoggerOption) *Logger {
	l := &Logger{output: os.Stderr}

	if path := config.Env().AuditLog; path != "" {
		if err := config.EnsureDir(filepath.Dir(path)); err == nil {
			if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
				l.output = f
			}
		}
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Start begins tracking an operation.
func (l *Logger) Start(category Category, operation string) *Event {
	return &Event{
		EventID:        uuid.New().String(),
		Category:       category,
		Operation:      operation,
		StartedAt:      time.Now(),
		ConversationID: l.conversationID,
		User:           l.user,
	}
}

// StartRequest begins tracking a backend call against a specific endpoint.
func (l *Logger) StartRequest(category Category, operation, endpoint string) *Event {
	event := l.Start(category, operation)
	event.Endpoint = endpoint
	return event
}

// Log writes a completed event to the output.
func (l *Logger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Ensure timing is set
	if event.CompletedAt.IsZero() {
		event.CompletedAt = time.Now()
		event.Duration = event.CompletedAt.Sub(event.StartedAt)
		event.DurationMs = event.Duration.Milliseconds()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = fmt.Fprintf(l.output, "%s\n", data)
	return err
}

// LogSuccess logs a successful operation.
func (l *Logger) LogSuccess(event *Event) error {
	event.Complete(StatusSuccess, nil)
	return l.Log(event)
}

// LogError logs a failed operation.
func (l *Logger) LogError(event *Event, err error) error {
	event.Complete(StatusError, err)
	return l.Log(event)
}

// LogOp logs a complete operation in one call.
func (l *Logger) LogOp(category Category, operation string, status Status, err error) {
	event := l.Start(category, operation)
	event.Complete(status, err)
	_ = l.Log(event)
}

// SetUser updates the acting user (call after login or logout).
func (l *Logger) SetUser(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.user = name
}

// Global logger instance
var (
	globalLogger *Logger
	globalOnce   sync.Once
)

// Global returns the global logger instance.
func Global() *Logger {
	globalOnce.Do(func() {
		globalLogger = NewLogger()
	})
	return globalLogger
}

// SetGlobal sets the global logger.
func SetGlobal(l *Logger) {
	globalLogger = l
}

// Op logs a quick operation through the global logger.
func Op(category Category, operation string, status Status, err error) {
	Global().LogOp(category, operation, status, err)
}
