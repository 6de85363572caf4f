package chat

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellinote/forge/internal/api"
	"github.com/intellinote/forge/internal/intake"
	"github.com/intellinote/forge/internal/monitor"
)

func readyConversation() *Conversation {
	c := New(true)
	c.connection = monitor.StatusConnected
	return c
}

func pdfAttachment(name string, size int64) *intake.Attachment {
	return &intake.Attachment{Name: name, Path: "/tmp/" + name, Size: size, MIME: "application/pdf"}
}

func loadingCount(c *Conversation) int {
	n := 0
	for _, m := range c.Messages() {
		if m.IsLoading {
			n++
		}
	}
	return n
}

func TestNewSeedsWelcomeMessage(t *testing.T) {
	c := New(false)

	require.Equal(t, 1, c.Len())
	msg := c.Messages()[0]
	assert.True(t, msg.IsWelcome)
	assert.Equal(t, SenderAI, msg.Sender)
	assert.Contains(t, msg.Text, "Welcome to IntelliNote Forge AI")
	assert.Len(t, c.ID(), 26)
}

func TestSubmitTextLifecycle(t *testing.T) {
	c := readyConversation()
	before := c.Len()

	req, serr := c.Submit("Summarize this")
	require.Nil(t, serr)
	assert.Equal(t, "Summarize this", req.Text)
	assert.Nil(t, req.Attachment)
	assert.Equal(t, StateSubmitting, c.State())

	msgs := c.Messages()
	require.Equal(t, before+2, len(msgs))
	user := msgs[len(msgs)-2]
	loading := msgs[len(msgs)-1]
	assert.Equal(t, SenderUser, user.Sender)
	assert.Equal(t, "Summarize this", user.Text)
	assert.True(t, loading.IsLoading)
	assert.Equal(t, "🤔 AI is thinking...", loading.Text)
	assert.Equal(t, loading.ID, req.LoadingID)
	assert.Equal(t, 1, loadingCount(c))

	c.CompleteSuccess(&api.Result{Text: "This document discusses...", ModelUsed: "Groq AI"}, 1200*time.Millisecond)

	msgs = c.Messages()
	assert.Equal(t, before+2, len(msgs))
	assert.Equal(t, 0, loadingCount(c))
	final := msgs[len(msgs)-1]
	assert.Equal(t, req.LoadingID, final.ID)
	assert.Equal(t, "This document discusses...", final.Text)
	assert.Equal(t, "Groq AI", final.ModelUsed)
	assert.InDelta(t, 1.2, final.ProcessingTime, 0.001)
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmitValidationOrder(t *testing.T) {
	t.Run("not authenticated", func(t *testing.T) {
		c := New(false)
		c.connection = monitor.StatusConnected
		_, serr := c.Submit("hi")
		require.NotNil(t, serr)
		assert.True(t, serr.RequiresLogin)
		assert.Equal(t, "Please login to use this feature", serr.Message)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("empty draft", func(t *testing.T) {
		c := readyConversation()
		_, serr := c.Submit("   ")
		require.NotNil(t, serr)
		assert.Equal(t, "Please enter a message or upload a PDF file", serr.Message)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, StateIdle, c.State())
	})

	t.Run("not connected", func(t *testing.T) {
		c := New(true)
		_, serr := c.Submit("hi")
		require.NotNil(t, serr)
		assert.Contains(t, serr.Message, "Cannot connect to backend")
		assert.Equal(t, 1, c.Len())
	})

	t.Run("already submitting", func(t *testing.T) {
		c := readyConversation()
		_, serr := c.Submit("first")
		require.Nil(t, serr)
		_, serr = c.Submit("second")
		require.NotNil(t, serr)
		assert.Equal(t, 1, loadingCount(c))
	})
}

func TestSubmitFileOnlySynthesizesCaption(t *testing.T) {
	c := readyConversation()
	require.NoError(t, c.Attach(pdfAttachment("report.pdf", 2048)))

	req, serr := c.Submit("")
	require.Nil(t, serr)
	assert.Equal(t, "", req.Text)
	require.NotNil(t, req.Attachment)

	msgs := c.Messages()
	user := msgs[len(msgs)-2]
	assert.Equal(t, "Analyze: report.pdf", user.Text)
	assert.Equal(t, "report.pdf", user.FileName)
	assert.Equal(t, "📄 Processing PDF and generating response...", msgs[len(msgs)-1].Text)
}

func TestCompleteSuccessWithAttachmentClearsAndConfirms(t *testing.T) {
	c := readyConversation()
	require.NoError(t, c.Attach(pdfAttachment("paper.pdf", 1024)))
	req, serr := c.Submit("key findings?")
	require.Nil(t, serr)

	c.CompleteSuccess(&api.Result{Text: "Findings are...", KeyPoints: []string{"a", "b"}}, time.Second)

	assert.Nil(t, c.Pending())
	msgs := c.Messages()
	confirm := msgs[len(msgs)-1]
	assert.Equal(t, "✅ PDF processed successfully", confirm.Text)
	assert.True(t, confirm.IsStatus)
	assert.Equal(t, SenderSystem, confirm.Sender)
	answer := msgs[len(msgs)-2]
	assert.Equal(t, req.LoadingID, answer.ID)
	assert.Equal(t, []string{"a", "b"}, answer.KeyPoints)
	assert.Greater(t, confirm.ID, answer.ID)
}

func TestCompleteFailureAuthError(t *testing.T) {
	c := readyConversation()
	require.NoError(t, c.Attach(pdfAttachment("doc.pdf", 1024)))
	_, serr := c.Submit("hello")
	require.Nil(t, serr)
	before := c.Len()

	f := c.CompleteFailure(&api.Error{
		Kind:       api.KindAuth,
		Message:    "Authentication required. Please login again.",
		StatusCode: http.StatusUnauthorized,
	})

	assert.True(t, f.RequiresLogin)
	assert.False(t, c.Authenticated())
	assert.Equal(t, before, c.Len())
	assert.Equal(t, 0, loadingCount(c))
	last := c.Messages()[c.Len()-1]
	assert.True(t, last.IsError)
	assert.True(t, last.RequiresLogin)
	assert.Equal(t, "❌ Authentication required. Please login again.", last.Text)
	// Attachment survives failure for retry.
	assert.NotNil(t, c.Pending())
}

func TestCompleteFailureConnectMarksBackendDown(t *testing.T) {
	c := readyConversation()
	_, serr := c.Submit("hi")
	require.Nil(t, serr)

	f := c.CompleteFailure(&api.Error{Kind: api.KindConnect, Message: "Cannot connect to backend server. Please make sure the server is running on http://localhost:8000"})

	assert.False(t, f.RequiresLogin)
	assert.Equal(t, monitor.StatusError, c.Connection())
}

func TestCompleteFailureUnclassifiedError(t *testing.T) {
	c := readyConversation()
	_, serr := c.Submit("hi")
	require.Nil(t, serr)

	f := c.CompleteFailure(errors.New("boom"))

	assert.Equal(t, "An error occurred while processing your request.", f.Message)
	last := c.Messages()[c.Len()-1]
	assert.True(t, last.IsError)
}

func TestRecordProbe(t *testing.T) {
	t.Run("connected while authenticated", func(t *testing.T) {
		c := New(true)
		c.RecordProbe(monitor.Outcome{Status: monitor.StatusConnected})
		assert.Equal(t, monitor.StatusConnected, c.Connection())
		last := c.Messages()[c.Len()-1]
		assert.True(t, last.IsStatus)
		assert.Contains(t, last.Text, "Backend connected successfully")
	})

	t.Run("error carries probe detail", func(t *testing.T) {
		c := New(true)
		c.RecordProbe(monitor.Outcome{Status: monitor.StatusError, Detail: "Cannot connect to backend server. Please make sure the server is running on http://localhost:8000"})
		last := c.Messages()[c.Len()-1]
		assert.Equal(t, "⚠️ Cannot connect to backend server. Please make sure the server is running on http://localhost:8000", last.Text)
	})

	t.Run("silent while anonymous", func(t *testing.T) {
		c := New(false)
		c.RecordProbe(monitor.Outcome{Status: monitor.StatusConnected})
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, monitor.StatusConnected, c.Connection())
	})

	t.Run("every probe reports once", func(t *testing.T) {
		c := New(true)
		c.RecordProbe(monitor.Outcome{Status: monitor.StatusConnected})
		c.RecordProbe(monitor.Outcome{Status: monitor.StatusConnected})
		statuses := 0
		for _, m := range c.Messages() {
			if m.IsStatus {
				statuses++
			}
		}
		assert.Equal(t, 2, statuses)
	})
}

func TestAttachRejectionKeepsPreviousAttachment(t *testing.T) {
	c := readyConversation()
	first := pdfAttachment("keep.pdf", 1024)
	require.NoError(t, c.Attach(first))
	before := c.Len()

	err := c.Attach(pdfAttachment("huge.pdf", 12*1024*1024))
	require.Error(t, err)
	assert.Equal(t, "File size must be less than 10MB", err.Error())
	assert.Same(t, first, c.Pending())
	assert.Equal(t, before, c.Len())
}

func TestAttachLogsUploadNotice(t *testing.T) {
	c := readyConversation()
	require.NoError(t, c.Attach(pdfAttachment("notes.pdf", 3*1024*1024)))

	last := c.Messages()[c.Len()-1]
	assert.Equal(t, "📄 Uploaded: notes.pdf", last.Text)
	assert.Equal(t, SenderSystem, last.Sender)
	assert.Equal(t, "3.00 MB", last.FileSize)
}

func TestMessageIDsStrictlyIncrease(t *testing.T) {
	c := readyConversation()
	_, serr := c.Submit("one")
	require.Nil(t, serr)
	c.CompleteSuccess(&api.Result{Text: "answer"}, 0)
	_, serr = c.Submit("two")
	require.Nil(t, serr)
	c.CompleteFailure(&api.Error{Kind: api.KindServer, Message: "Server error. Please try again later."})

	msgs := c.Messages()
	for i := 1; i < len(msgs); i++ {
		assert.Greater(t, msgs[i].ID, msgs[i-1].ID)
	}
}
