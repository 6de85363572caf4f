// Package render provides output formatting for terminal consumption.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/intellinote/forge/internal/api"
	"github.com/intellinote/forge/internal/session"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Health formats the outcome of a backend health probe.
func (r *Renderer) Health(healthy bool, baseURL string, detail string) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("IntelliNote Backend\n"))
		sb.WriteString(strings.Repeat("─", 40) + "\n")

		if healthy {
			fmt.Fprintf(&sb, "  Status:  %s\n", color.GreenString("connected"))
		} else {
			fmt.Fprintf(&sb, "  Status:  %s\n", color.RedString("unreachable"))
		}
		fmt.Fprintf(&sb, "  Address: %s\n", baseURL)
		if detail != "" {
			fmt.Fprintf(&sb, "  Detail:  %s\n", color.YellowString(detail))
		}
	} else {
		fmt.Fprintf(&sb, "healthy=%v address=%s", healthy, baseURL)
		if detail != "" {
			fmt.Fprintf(&sb, " detail=%q", detail)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Whoami formats the current session identity. A nil session means anonymous.
func (r *Renderer) Whoami(sess *session.Session) string {
	var sb strings.Builder

	if sess == nil {
		if r.pretty {
			sb.WriteString(color.YellowString("Not logged in") + "\n")
			sb.WriteString("  Run 'forge login' to authenticate\n")
		} else {
			sb.WriteString("anonymous\n")
		}
		return sb.String()
	}

	if r.pretty {
		fmt.Fprintf(&sb, "Logged in as %s\n", color.GreenString(sess.DisplayName()))
		if sess.User.Email != "" {
			fmt.Fprintf(&sb, "  Email:    %s\n", sess.User.Email)
		}
		if sess.User.Username != "" {
			fmt.Fprintf(&sb, "  Username: %s\n", sess.User.Username)
		}
	} else {
		fmt.Fprintf(&sb, "user=%s\n", sess.DisplayName())
	}

	return sb.String()
}

// Answer formats a normalized AI response for one-shot commands.
func (r *Renderer) Answer(res *api.Result, elapsed time.Duration) string {
	var sb strings.Builder

	sb.WriteString(res.Text)
	if !strings.HasSuffix(res.Text, "\n") {
		sb.WriteString("\n")
	}

	if len(res.KeyPoints) > 0 {
		if r.pretty {
			sb.WriteString("\n" + color.CyanString("Key Points") + "\n")
		} else {
			sb.WriteString("\nKey Points:\n")
		}
		for _, kp := range res.KeyPoints {
			fmt.Fprintf(&sb, "  • %s\n", kp)
		}
	}

	footer := fmt.Sprintf("%s · %s", res.ModelUsed, FormatDuration(elapsed))
	if r.pretty {
		sb.WriteString("\n" + color.HiBlackString(footer) + "\n")
	} else {
		sb.WriteString("\n" + footer + "\n")
	}

	return sb.String()
}

// Error formats a failure for stderr.
func (r *Renderer) Error(msg string) string {
	if r.pretty {
		return color.RedString("✗ ") + msg + "\n"
	}
	return "error: " + msg + "\n"
}

// Success formats a confirmation line.
func (r *Renderer) Success(msg string) string {
	if r.pretty {
		return color.GreenString("✓ ") + msg + "\n"
	}
	return msg + "\n"
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
