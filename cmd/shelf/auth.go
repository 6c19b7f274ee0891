package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/forms"
	"github.com/five82/shelf/internal/session"
)

// readPassword reads a password without echo when stdin is a terminal.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	return readLine(cmd.InOrStdin())
}

// readLine returns one line without its line terminator. Other whitespace
// is kept.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.RunE = flags.withEnv(func(cmd *cobra.Command, env *app.Env, _ []string) error {
		password, err := readPassword(cmd, "Password: ")
		if err != nil {
			return err
		}
		values := forms.Login{Email: strings.TrimSpace(email), Password: password}
		if err := forms.ValidateLogin(values); err != nil {
			return err
		}
		result, err := env.Client.SignIn(cmd.Context(), values.Email, values.Password)
		if err != nil {
			return errors.New(catalog.Message(err, "Failed to log in. Please try again."))
		}
		if err := env.Session.SignedIn(result.ID, result.Token, result.Role); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", result.ID, result.Role)
		return nil
	})
	return cmd
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: flags.withEnv(func(cmd *cobra.Command, env *app.Env, _ []string) error {
			if err := env.Session.SignOut(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newSignupCmd(flags *globalFlags) *cobra.Command {
	var values forms.SignUp
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&values.Name, "name", "", "full name")
	cmd.Flags().StringVar(&values.Username, "username", "", "username")
	cmd.Flags().StringVar(&values.Email, "email", "", "email")
	cmd.RunE = flags.withEnv(func(cmd *cobra.Command, env *app.Env, _ []string) error {
		password, err := readPassword(cmd, "Password: ")
		if err != nil {
			return err
		}
		values.Password = password
		if err := forms.ValidateSignUp(values); err != nil {
			return err
		}
		if err := env.Client.SignUp(cmd.Context(), values.Input()); err != nil {
			return errors.New(catalog.Message(err, "Failed to create account. Please try again."))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account created. Run `shelf login` to sign in.")
		return nil
	})
	return cmd
}

func newWhoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: flags.withEnv(func(cmd *cobra.Command, env *app.Env, _ []string) error {
			out := cmd.OutOrStdout()
			sess := env.Session.Session()
			if !sess.LoggedIn {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			fmt.Fprintf(out, "id:    %s\nrole:  %s\n", env.Session.UserID(), sess.Role)
			info, err := session.InspectToken(env.Session.Token())
			if err != nil {
				fmt.Fprintln(out, "token: opaque")
				return nil
			}
			if !info.ExpiresAt.IsZero() {
				state := "valid"
				if info.Expired(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(out, "token: %s until %s\n", state, info.ExpiresAt.Local().Format(time.RFC3339))
			}
			return nil
		}),
	}
}

// requireAdmin fails unless the stored session is an admin one.
func requireAdmin(env *app.Env) error {
	if !env.Session.Session().IsAdmin() {
		return errors.New("admin login required (run `shelf login`)")
	}
	return nil
}
