// Package main provides the Forge CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/intellinote/forge/internal/api"
	"github.com/intellinote/forge/internal/audit"
	"github.com/intellinote/forge/internal/config"
	"github.com/intellinote/forge/internal/monitor"
	"github.com/intellinote/forge/internal/render"
	"github.com/intellinote/forge/internal/session"
	"github.com/intellinote/forge/internal/tui"
)

var (
	version = "0.1.0"
	pretty  = true
	out     = render.New(true)
	store   *session.Store
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "forge",
		Short: "IntelliNote Forge - chat with your PDFs from the terminal",
		Long: `Forge: terminal client for the IntelliNote PDF analysis backend.

Usage modes:
  forge            Start the interactive chat (requires a terminal)
  forge <command>  Run a one-shot command (see below)

Use 'forge health' to check backend connectivity.
Use 'forge login' to authenticate before chatting.`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env := config.Env()
			if env.NoColor {
				color.NoColor = true
			}
			out = render.New(pretty)
			store = session.NewStore(config.SessionFile())
		},
		Run: func(cmd *cobra.Command, args []string) {
			if err := runChat(); err != nil {
				render.Stderr().Print("%s", out.Error(err.Error()))
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Pretty print output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "auth", Title: "Authentication:"},
		&cobra.Group{ID: "chat", Title: "Chat:"},
	)

	login := loginCmd()
	login.GroupID = "auth"
	rootCmd.AddCommand(login)

	register := registerCmd()
	register.GroupID = "auth"
	rootCmd.AddCommand(register)

	logout := logoutCmd()
	logout.GroupID = "auth"
	rootCmd.AddCommand(logout)

	whoami := whoamiCmd()
	whoami.GroupID = "auth"
	rootCmd.AddCommand(whoami)

	chat := chatCmd()
	chat.GroupID = "chat"
	rootCmd.AddCommand(chat)

	ask := askCmd()
	ask.GroupID = "chat"
	rootCmd.AddCommand(ask)

	upload := uploadCmd()
	upload.GroupID = "chat"
	rootCmd.AddCommand(upload)

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(healthCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient builds the API client with a token source that reads the store
// fresh per request.
func newClient() *api.Client {
	return api.New(config.Env().APIBaseURL, func() string {
		sess, err := store.Load()
		if err != nil || sess == nil {
			return ""
		}
		return sess.Token
	})
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			render.Stdout().Println("forge %s", version)
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			client := newClient()
			err := client.CheckHealth(context.Background())
			detail := ""
			if err != nil {
				detail = err.Error()
			}
			audit.Op(audit.CategoryHealth, "health", statusOf(err), err)
			render.Stdout().Print("%s", out.Health(err == nil, client.BaseURL(), detail))
			if err != nil {
				os.Exit(1)
			}
		},
	}
}

func statusOf(err error) audit.Status {
	if err != nil {
		return audit.StatusError
	}
	return audit.StatusSuccess
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runChat(); err != nil {
				render.Stderr().Print("%s", out.Error(err.Error()))
				os.Exit(1)
			}
		},
	}
}

func runChat() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("chat requires a terminal; use 'forge ask' for scripted use")
	}

	sess, err := store.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	client := newClient()
	workDir, _ := os.Getwd()

	return tui.Run(tui.Deps{
		Client:  client,
		Store:   store,
		Monitor: monitor.New(client),
		Log:     audit.Global(),
		WorkDir: workDir,
		Session: sess,
	})
}
