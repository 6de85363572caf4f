package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/intellinote/forge/internal/api"
	"github.com/intellinote/forge/internal/intake"
	"github.com/intellinote/forge/internal/monitor"
)

const welcomeText = "Welcome to IntelliNote Forge AI! I can help you analyze PDFs " +
	"and answer questions. Upload a document or just start chatting!"

// State is the per-request submission lifecycle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

// SubmitError is a local validation failure: nothing was appended to the log
// and no network attempt was made.
type SubmitError struct {
	Message       string
	RequiresLogin bool
}

func (e *SubmitError) Error() string { return e.Message }

// Request describes the outbound call the caller must now perform. Text may
// be empty for a file-only submission; Attachment is nil for text-only.
type Request struct {
	Text       string
	Attachment *intake.Attachment
	LoadingID  int64
}

// Failure is the classified outcome of a failed request, after the error
// message has been appended to the log.
type Failure struct {
	Message       string
	RequiresLogin bool
}

// Conversation is the single owner of the message log and pending attachment.
// It is not safe for concurrent use; all transitions happen on the event
// loop that drives it.
type Conversation struct {
	id            string
	authenticated bool
	connection    monitor.Status
	state         State
	pending       *intake.Attachment
	inFlight      *Request
	messages      []Message
	nextID        int64
	now           func() time.Time
}

// New creates a conversation seeded with the welcome message.
func New(authenticated bool) *Conversation {
	c := &Conversation{
		id:            ulid.Make().String(),
		authenticated: authenticated,
		connection:    monitor.StatusChecking,
		now:           time.Now,
	}
	c.append(Message{Text: welcomeText, Sender: SenderAI, IsWelcome: true})
	return c
}

// ID returns the conversation's ULID.
func (c *Conversation) ID() string { return c.id }

// State returns the current submission state.
func (c *Conversation) State() State { return c.state }

// Authenticated reports whether submissions are currently permitted to
// proceed past the login gate.
func (c *Conversation) Authenticated() bool { return c.authenticated }

// SetAuthenticated flips the login gate.
func (c *Conversation) SetAuthenticated(ok bool) { c.authenticated = ok }

// Connection returns the last recorded backend status.
func (c *Conversation) Connection() monitor.Status { return c.connection }

// Pending returns the staged attachment, or nil.
func (c *Conversation) Pending() *intake.Attachment { return c.pending }

// Messages returns a copy of the log in append order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the log.
func (c *Conversation) Len() int { return len(c.messages) }

// append assigns the next ID and timestamp, then adds m to the log.
func (c *Conversation) append(m Message) int64 {
	c.nextID++
	m.ID = c.nextID
	m.Timestamp = c.now()
	c.messages = append(c.messages, m)
	return m.ID
}

// appendWithID adds a terminal message reusing the removed placeholder's ID.
func (c *Conversation) appendWithID(id int64, m Message) {
	m.ID = id
	m.Timestamp = c.now()
	c.messages = append(c.messages, m)
	if id > c.nextID {
		c.nextID = id
	}
}

func (c *Conversation) remove(id int64) {
	kept := c.messages[:0]
	for _, m := range c.messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	c.messages = kept
}

// RecordProbe stores the probe outcome and, while authenticated, appends
// exactly one status message for it. Every probe reports, even when the
// status did not change: re-probing is the user's retry affordance and
// deserves visible feedback.
func (c *Conversation) RecordProbe(out monitor.Outcome) {
	c.connection = out.Status
	if !c.authenticated {
		return
	}
	switch out.Status {
	case monitor.StatusConnected:
		c.append(Message{
			Text:     "✅ Backend connected successfully. Ready to process your requests!",
			Sender:   SenderSystem,
			IsStatus: true,
		})
	case monitor.StatusError:
		c.append(Message{
			Text:     "⚠️ " + out.Detail,
			Sender:   SenderSystem,
			IsStatus: true,
		})
	}
}

// Attach validates and stages a file for the next submission. A rejected
// file leaves any previously staged attachment untouched.
func (c *Conversation) Attach(att *intake.Attachment) error {
	if err := intake.Validate(att); err != nil {
		return err
	}
	c.pending = att
	c.append(Message{
		Text:     "📄 Uploaded: " + att.Name,
		Sender:   SenderSystem,
		FileName: att.Name,
		FileSize: intake.FormatSize(att.Size),
	})
	return nil
}

// RemoveAttachment discards the staged attachment without logging anything.
func (c *Conversation) RemoveAttachment() { c.pending = nil }

// Submit validates the draft and, when accepted, appends the user message
// and the loading placeholder, then hands back the request to perform.
// Validation order: login gate, non-empty, connectivity, single in-flight
// request. A rejection changes no state.
func (c *Conversation) Submit(text string) (*Request, *SubmitError) {
	if !c.authenticated {
		return nil, &SubmitError{Message: "Please login to use this feature", RequiresLogin: true}
	}
	text = strings.TrimSpace(text)
	if text == "" && c.pending == nil {
		return nil, &SubmitError{Message: "Please enter a message or upload a PDF file"}
	}
	if c.connection != monitor.StatusConnected {
		return nil, &SubmitError{Message: "Cannot connect to backend. Please check if the server is running."}
	}
	if c.state == StateSubmitting {
		return nil, &SubmitError{Message: "A request is already in progress"}
	}

	user := Message{Text: text, Sender: SenderUser}
	if c.pending != nil {
		if user.Text == "" {
			user.Text = "Analyze: " + c.pending.Name
		}
		user.FileName = c.pending.Name
		user.FileSize = intake.FormatSize(c.pending.Size)
	}
	c.append(user)

	loadingText := "🤔 AI is thinking..."
	if c.pending != nil {
		loadingText = "📄 Processing PDF and generating response..."
	}
	loadingID := c.append(Message{Text: loadingText, Sender: SenderAI, IsLoading: true})

	c.state = StateSubmitting
	c.inFlight = &Request{Text: text, Attachment: c.pending, LoadingID: loadingID}
	return c.inFlight, nil
}

// finish clears the in-flight request and returns it.
func (c *Conversation) finish() *Request {
	req := c.inFlight
	c.inFlight = nil
	c.state = StateIdle
	return req
}

// CompleteSuccess resolves the loading placeholder into the AI answer. A
// submission that carried an attachment also clears it and confirms with a
// status message.
func (c *Conversation) CompleteSuccess(res *api.Result, elapsed time.Duration) {
	req := c.finish()
	if req == nil {
		return
	}
	c.remove(req.LoadingID)
	c.appendWithID(req.LoadingID, Message{
		Text:           res.Text,
		Sender:         SenderAI,
		KeyPoints:      res.KeyPoints,
		ProcessingTime: elapsed.Seconds(),
		ModelUsed:      res.ModelUsed,
	})
	if req.Attachment != nil {
		c.pending = nil
		c.append(Message{Text: "✅ PDF processed successfully", Sender: SenderSystem, IsStatus: true})
	}
}

// CompleteFailure resolves the loading placeholder into an error message and
// classifies the failure for the caller. The attachment stays staged so the
// user can retry. A login-required failure also drops the local login gate;
// tearing down the stored session is the caller's job.
func (c *Conversation) CompleteFailure(err error) Failure {
	req := c.finish()
	if req == nil {
		return Failure{}
	}
	c.remove(req.LoadingID)

	f := Failure{Message: "An error occurred while processing your request."}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		f.Message = apiErr.Message
		f.RequiresLogin = apiErr.RequiresLogin()
		if apiErr.Kind == api.KindConnect {
			c.connection = monitor.StatusError
		}
	}

	c.appendWithID(req.LoadingID, Message{
		Text:          "❌ " + f.Message,
		Sender:        SenderAI,
		IsError:       true,
		RequiresLogin: f.RequiresLogin,
	})
	if f.RequiresLogin {
		c.authenticated = false
	}
	return f
}
