package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/notesy-api/internal/client"
)

type credentials struct {
	username string
	email    string
	password string
}

func newLoginCmd(env *cliEnv) *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.fill(cmd.InOrStdin(), cmd.ErrOrStderr(), false); err != nil {
				return err
			}
			api, err := env.apiClient()
			if err != nil {
				return err
			}

			auth, err := api.Login(cmd.Context(), creds.email, creds.password)
			if err != nil {
				return friendlyError(err, env.serverURL())
			}
			if err := env.saveToken(auth.Token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", auth.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(env *cliEnv) *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.fill(cmd.InOrStdin(), cmd.ErrOrStderr(), true); err != nil {
				return err
			}
			api, err := env.apiClient()
			if err != nil {
				return err
			}

			auth, err := api.Register(cmd.Context(), creds.username, creds.email, creds.password)
			if err != nil {
				return friendlyError(err, env.serverURL())
			}
			if err := env.saveToken(auth.Token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. You are signed in.\n", auth.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.username, "username", "", "display name")
	cmd.Flags().StringVar(&creds.email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if env.token() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			if err := env.saveToken(""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

// fill prompts on in for every missing field, one line each.
func (c *credentials) fill(in io.Reader, prompt io.Writer, withUsername bool) error {
	r := bufio.NewReader(in)
	ask := func(label string, dst *string) error {
		if *dst != "" {
			return nil
		}
		fmt.Fprintf(prompt, "%s: ", label)
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		*dst = strings.TrimSpace(line)
		if *dst == "" {
			return fmt.Errorf("%s is required", strings.ToLower(label))
		}
		return nil
	}

	if withUsername {
		if err := ask("Username", &c.username); err != nil {
			return err
		}
	}
	if err := ask("Email", &c.email); err != nil {
		return err
	}
	return ask("Password", &c.password)
}

// friendlyError turns client errors into the message shown to the user.
func friendlyError(err error, server string) error {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return errors.New(apiErr.Message)
	case errors.Is(err, client.ErrUnreachable):
		return fmt.Errorf("could not reach the notesy server at %s", server)
	default:
		return err
	}
}
