package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/intellinote/forge/internal/api"
	"github.com/intellinote/forge/internal/audit"
	"github.com/intellinote/forge/internal/intake"
	"github.com/intellinote/forge/internal/render"
)

// fail prints a classified error and exits. Login-required failures get the
// call-to-action hint.
func fail(err error) {
	render.Stderr().Print("%s", out.Error(err.Error()))
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.RequiresLogin() {
		render.Stderr().Item("Run 'forge login' to authenticate")
	}
	os.Exit(1)
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <text>...",
		Short: "Ask the AI a question (one-shot)",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				fail(fmt.Errorf("Please enter a message or upload a PDF file"))
			}

			client := newClient()
			event := audit.Global().StartRequest(audit.CategoryChat, "ask", "/ask/ai")

			start := time.Now()
			res, err := client.AskText(context.Background(), text)
			if err != nil {
				_ = audit.Global().LogError(event, err)
				fail(err)
			}
			_ = audit.Global().LogSuccess(event)

			render.Stdout().Print("%s", out.Answer(res, time.Since(start)))
		},
	}
}

func uploadCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF for summarization (one-shot)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			att, err := intake.FromPath(args[0])
			if err != nil {
				fail(err)
			}
			if err := intake.Validate(att); err != nil {
				fail(err)
			}

			client := newClient()
			event := audit.Global().StartRequest(audit.CategoryUpload, "upload", "/upload/pdf")

			start := time.Now()
			res, err := client.UploadPDF(context.Background(), att, message)
			if err != nil {
				_ = audit.Global().LogError(event, err)
				fail(err)
			}
			_ = audit.Global().LogSuccess(event)

			render.Stdout().Print("%s", out.Success("PDF processed successfully"))
			render.Stdout().Print("%s", out.Answer(res, time.Since(start)))
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Optional context for the analysis")
	return cmd
}
