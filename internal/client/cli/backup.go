package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBackupCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the full local state",
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Write history, inventory and the current draft to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if err := app.Backup.Export(cmd.Context(), f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", args[0])
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the local state with a backup's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := app.Backup.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d invoices and %d products (exported %s)\n",
				len(doc.History), len(doc.Inventory), doc.ExportedAt)
			return nil
		},
	}

	cmd.AddCommand(export, restore)
	return cmd
}
