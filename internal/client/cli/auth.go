package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/primesolution/invoicer/internal/common"
)

func newLoginCommand(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Auth.Login(cmd.Context(), username, password)
			if errors.Is(err, common.ErrUserSuspended) {
				return fmt.Errorf("account %q is suspended, contact an administrator", username)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", sess.Username, sess.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "n", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Auth.Current(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), role %s\n", sess.Username, sess.Name, sess.Role)
			return nil
		},
	}
}
