package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/primesolution/invoicer/internal/api"
)

func newUsersCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage operator accounts (admin)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			users, err := app.Remote.GetUsers(ctx, app.Auth.Token(ctx))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, u := range users {
				fmt.Fprintf(out, "%-16s %-24s %-8s %s\n", u.Username, u.Name, u.Role, u.Status)
			}
			return nil
		},
	}

	var username, name, role, password, status string
	addUserFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&username, "username", "", "account username")
		c.Flags().StringVar(&name, "name", "", "display name")
		c.Flags().StringVar(&role, "role", "user", "role (user|admin)")
		c.Flags().StringVar(&password, "password", "", "password")
		c.Flags().StringVar(&status, "status", api.UserStatusActive, "status (active|suspended)")
		_ = c.MarkFlagRequired("username")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := app.Remote.CreateUser(ctx, app.Auth.Token(ctx), api.User{
				Username: username, Name: name, Role: role, Password: password, Status: status,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", username)
			return nil
		},
	}
	addUserFlags(create)
	_ = create.MarkFlagRequired("password")

	update := &cobra.Command{
		Use:   "update",
		Short: "Update an account (suspend, reactivate, reset password)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := app.Remote.UpdateUser(ctx, app.Auth.Token(ctx), api.User{
				Username: username, Name: name, Role: role, Password: password, Status: status,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated user %s\n", username)
			return nil
		},
	}
	addUserFlags(update)

	del := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Remote.DeleteUser(ctx, app.Auth.Token(ctx), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func newActivityCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show the store's activity log (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entries, err := app.Remote.GetActivity(ctx, app.Auth.Token(ctx))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%-24s %-16s %-20s %s\n", e.At, e.Username, e.Action, e.Details)
			}
			return nil
		},
	}
}
