package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/primesolution/invoicer/internal/client/repositories/settings"
	"github.com/primesolution/invoicer/internal/common"
)

func newSyncCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile pending drafts with the store now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app.Monitor.Probe(ctx)

			outcome, err := app.Reconciler.Reconcile(ctx)
			if errors.Is(err, common.ErrorSyncInFlight) {
				fmt.Fprintln(cmd.OutOrStdout(), "a sync is already running")
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outcome.SkippedOffline {
				fmt.Fprintf(out, "offline, %d drafts kept pending\n", outcome.Unacknowledged)
				return nil
			}
			fmt.Fprintf(out, "synced %d, unacknowledged %d\n", outcome.Synced, outcome.Unacknowledged)
			for tempID, number := range outcome.Mapping {
				fmt.Fprintf(out, "  %s -> %s\n", tempID, number)
			}
			return nil
		},
	}
}

func newStatusCommand(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show connectivity, pending drafts and last sync time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			status := app.Monitor.Probe(ctx)

			pending, err := app.Repos.Invoices.GetAllPending(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "store:     %s (%s)\n", status, app.Config.EndpointURL)
			fmt.Fprintf(out, "pending:   %d\n", len(pending))
			if last, err := app.Repos.Settings.Get(ctx, settings.KeyLastSyncAt); err == nil {
				fmt.Fprintf(out, "last sync: %s\n", last)
			} else {
				fmt.Fprintln(out, "last sync: never")
			}
			if sess, err := app.Auth.Current(ctx); err == nil {
				fmt.Fprintf(out, "session:   %s (%s)\n", sess.Username, sess.Role)
			} else {
				fmt.Fprintln(out, "session:   none")
			}

			if !watch {
				return nil
			}

			fmt.Fprintf(out, "watching store every %s, ctrl-c to stop\n", app.Config.ProbeInterval)
			go app.Monitor.Watch(ctx, app.Config.ProbeInterval)

			last := app.Monitor.Status()
			ticker := time.NewTicker(app.Config.ProbeInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if s := app.Monitor.Status(); s != last {
						fmt.Fprintf(out, "store:     %s\n", s)
						last = s
					}
				case <-ctx.Done():
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep probing on the configured interval until interrupted")
	return cmd
}
