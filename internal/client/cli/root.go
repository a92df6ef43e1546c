package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the full command tree over a wired App.
func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "invoicer",
		Short:         "Offline-first invoice and quote manager",
		Long:          "Create invoices and quotes locally, then reconcile them with the shared ledger store whenever it is reachable.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newLoginCommand(app))
	cmd.AddCommand(newLogoutCommand(app))
	cmd.AddCommand(newWhoamiCommand(app))

	cmd.AddCommand(newNewCommand(app))
	cmd.AddCommand(newShowCommand(app))
	cmd.AddCommand(newSaveCommand(app))
	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newLoadCommand(app))
	cmd.AddCommand(newDeleteCommand(app))
	cmd.AddCommand(newPullCommand(app))
	cmd.AddCommand(newNextIDCommand(app))

	cmd.AddCommand(newSyncCommand(app))
	cmd.AddCommand(newStatusCommand(app))

	cmd.AddCommand(newProductsCommand(app))
	cmd.AddCommand(newUsersCommand(app))
	cmd.AddCommand(newActivityCommand(app))
	cmd.AddCommand(newDefaultsCommand(app))
	cmd.AddCommand(newBackupCommand(app))

	return cmd
}
