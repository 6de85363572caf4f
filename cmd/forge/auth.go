package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/intellinote/forge/internal/audit"
	"github.com/intellinote/forge/internal/render"
)

// promptLine reads one line from stdin with a label.
func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var err error
			if email == "" {
				email, err = promptLine("Email")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}

			client := newClient()
			event := audit.Global().StartRequest(audit.CategoryAuth, "login", "/login")
			sess, err := client.Login(context.Background(), email, password)
			if err != nil {
				_ = audit.Global().LogError(event, err)
				render.Stderr().Print("%s", out.Error(err.Error()))
				os.Exit(1)
			}
			_ = audit.Global().LogSuccess(event)

			if err := store.Save(sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			render.Stdout().Print("%s", out.Success("Logged in as "+sess.DisplayName()))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	return cmd
}

func registerCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var err error
			if username == "" {
				username, err = promptLine("Username")
				if err != nil {
					return err
				}
			}
			if email == "" {
				email, err = promptLine("Email")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm password")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			client := newClient()
			event := audit.Global().StartRequest(audit.CategoryAuth, "register", "/register")
			if err := client.Register(context.Background(), username, email, password); err != nil {
				_ = audit.Global().LogError(event, err)
				render.Stderr().Print("%s", out.Error(err.Error()))
				os.Exit(1)
			}
			_ = audit.Global().LogSuccess(event)

			// Registration issues no token; the account must log in next.
			render.Stdout().Print("%s", out.Success("Account created. Run 'forge login' to authenticate."))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username (prompted if omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			audit.Op(audit.CategoryAuth, "logout", audit.StatusSuccess, nil)
			render.Stdout().Print("%s", out.Success("Logged out"))
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := store.Load()
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			render.Stdout().Print("%s", out.Whoami(sess))
			return nil
		},
	}
}
