// Package audit provides structured JSONL logging for Forge operations.
package audit

import "time"

// Category represents the type of operation being audited.
type Category string

const (
	CategoryAuth   Category = "auth"
	CategoryChat   Category = "chat"
	CategoryUpload Category = "upload"
	CategoryHealth Category = "health"
	CategorySystem Category = "system"
)

// Status represents the outcome of an operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
)

// Event represents a single auditable operation.
type Event struct {
	EventID string `json:"event_id"`

	// Operation details
	Category  Category `json:"category"`
	Operation string   `json:"operation"`
	Endpoint  string   `json:"endpoint,omitempty"`

	// Result
	Status       Status `json:"status"`
	StatusCode   int    `json:"status_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Timing
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
	DurationMs  int64         `json:"duration_ms,omitempty"`
	Duration    time.Duration `json:"-"`

	// Session context
	ConversationID string `json:"conversation_id,omitempty"`
	User           string `json:"user,omitempty"`
}

// Complete finalizes the event with timing and status.
func (e *Event) Complete(status Status, err error) {
	e.CompletedAt = time.Now()
	e.Duration = e.CompletedAt.Sub(e.StartedAt)
	e.DurationMs = e.Duration.Milliseconds()
	e.Status = status

	if err != nil {
		e.ErrorMessage = err.Error()
		if status == "" {
			e.Status = StatusError
		}
	}
}
