package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/primesolution/invoicer/internal/client/models"
)

func newNewCommand(app *App) *cobra.Command {
	var quote bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a fresh draft",
		Long:  "Start a fresh invoice (or quote) seeded from the cached global defaults. The draft stays local until saved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := app.Invoices.NewDraft(cmd.Context())
			if err != nil {
				return err
			}
			if quote {
				draft, err = app.Invoices.CurrentDraft(cmd.Context())
				if err != nil {
					return err
				}
				draft.DocumentType = models.DocumentTypeQuote
				draft.Title = "Quote"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "new %s draft %s\n", draft.DocumentType, draft.Id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quote, "quote", "q", false, "create a quote instead of an invoice")
	return cmd
}

func newShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := app.Invoices.CurrentDraft(cmd.Context())
			if err != nil {
				return fmt.Errorf("no current draft, run 'invoicer new' first")
			}
			printInvoice(cmd, draft)
			return nil
		},
	}
}

func newSaveCommand(app *App) *cobra.Command {
	var (
		client, clientAddress, clientPhone string
		notes                              string
		items                              []string
		taxRate                            float64
		enableTax                          bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the current draft and reconcile",
		Long: `Apply the given edits to the current draft, persist it locally and then
try to exchange it for a canonical number. A save never fails because the
store is unreachable; the draft stays pending and is retried on the next
save or sync.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			draft, err := app.Invoices.CurrentDraft(ctx)
			if err != nil {
				return fmt.Errorf("no current draft, run 'invoicer new' first")
			}

			if client != "" {
				draft.ClientName = client
			}
			if clientAddress != "" {
				draft.ClientAddress = clientAddress
			}
			if clientPhone != "" {
				draft.ClientPhone = clientPhone
			}
			if notes != "" {
				draft.Notes = notes
			}
			if cmd.Flags().Changed("tax") {
				draft.TaxRate = taxRate
				draft.EnableTax = true
			}
			if cmd.Flags().Changed("enable-tax") {
				draft.EnableTax = enableTax
			}
			if len(items) > 0 {
				parsed, err := parseItems(items)
				if err != nil {
					return err
				}
				draft.Items = parsed
			}

			app.Monitor.Probe(ctx)
			res, err := app.Invoices.Save(ctx, draft)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "saved %s as %s\n", draft.Id, draft.InvoiceNumber)
			switch {
			case res.SyncErr != nil:
				fmt.Fprintf(out, "store unreachable, draft kept pending: %v\n", res.SyncErr)
			case res.Outcome != nil && res.Outcome.SkippedOffline:
				fmt.Fprintln(out, "offline, draft kept pending")
			case draft.SyncStatus == models.SyncStatusSynced:
				fmt.Fprintf(out, "confirmed by store as invoice %s\n", draft.InvoiceNumber)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "client name")
	cmd.Flags().StringVar(&clientAddress, "client-address", "", "client address")
	cmd.Flags().StringVar(&clientPhone, "client-phone", "", "client phone")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringArrayVar(&items, "item", nil, "line item as 'description:quantity:price', repeatable")
	cmd.Flags().Float64Var(&taxRate, "tax", 0, "tax rate percentage, enables tax")
	cmd.Flags().BoolVar(&enableTax, "enable-tax", false, "toggle tax on the computed total")

	return cmd
}

func newListCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List local history, optionally filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				invs []models.Invoice
				err  error
			)
			if len(args) == 1 {
				invs, err = app.Invoices.Search(ctx, args[0])
			} else {
				invs, err = app.Invoices.History(ctx)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(invs) == 0 {
				fmt.Fprintln(out, "no invoices")
				return nil
			}
			for _, inv := range invs {
				fmt.Fprintf(out, "%-12s %-10s %-24s %10.2f %s  %s\n",
					inv.InvoiceNumber, inv.SyncStatus, inv.ClientName, inv.GrandTotal(), inv.Currency, inv.Id)
			}
			return nil
		},
	}
	return cmd
}

func newLoadCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load <id>",
		Short: "Load an invoice from history as the current draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := app.Invoices.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printInvoice(cmd, inv)
			return nil
		},
	}
}

func newDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice from local history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Invoices.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newPullCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Merge the store's invoice history into the local cache",
		Long: `Fetch every invoice the store holds and merge it into the local cache.
Pending local drafts are never overwritten; everything fetched arrives as
synced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resp, err := app.Remote.GetAllInvoices(ctx)
			if err != nil {
				app.Monitor.MarkDisconnected()
				return err
			}
			app.Monitor.MarkConnected()

			merged := 0
			for _, raw := range resp.Invoices {
				var inv models.Invoice
				if err := json.Unmarshal(raw, &inv); err != nil {
					app.Logger.Warn(ctx, "skipping unreadable invoice from store", "error", err.Error())
					continue
				}
				if inv.Id == "" {
					inv.Id = inv.InvoiceNumber
				}
				inv.SyncStatus = models.SyncStatusSynced
				inv.TempId = ""
				if existing, err := app.Repos.Invoices.GetByID(ctx, inv.Id); err == nil &&
					existing.SyncStatus == models.SyncStatusPending {
					continue
				}
				if err := app.Repos.Invoices.Upsert(ctx, &inv); err != nil {
					return err
				}
				merged++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged %d invoices, next number %d\n", merged, resp.NextID)
			return nil
		},
	}
}

func newNextIDCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next-id",
		Short: "Show the next canonical number the store would assign",
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := app.Remote.GetNextID(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
}

// parseItems turns repeated 'description:quantity:price' specs into line
// items. Descriptions may not contain colons; quantity and price are plain
// numbers.
func parseItems(specs []string) ([]models.Item, error) {
	items := make([]models.Item, 0, len(specs))
	for i, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("bad item %q, want 'description:quantity:price'", spec)
		}
		qty, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad quantity in item %q: %w", spec, err)
		}
		price, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bad price in item %q: %w", spec, err)
		}
		items = append(items, models.Item{
			ID:          strconv.Itoa(i + 1),
			Description: parts[0],
			Quantity:    qty,
			Price:       price,
		})
	}
	return items, nil
}

func printInvoice(cmd *cobra.Command, inv *models.Invoice) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (%s)\n", inv.Title, inv.InvoiceNumber, inv.SyncStatus)
	fmt.Fprintf(out, "  id:      %s\n", inv.Id)
	fmt.Fprintf(out, "  date:    %s  due %s\n", inv.Date, inv.DueDate)
	if inv.ClientName != "" {
		fmt.Fprintf(out, "  client:  %s\n", inv.ClientName)
	}
	for _, it := range inv.Items {
		fmt.Fprintf(out, "  - %-30s %8.2f x %10.2f = %10.2f\n", it.Description, it.Quantity, it.Price, it.Quantity*it.Price)
	}
	if inv.EnableTax {
		fmt.Fprintf(out, "  tax:     %.1f%%\n", inv.TaxRate)
	}
	fmt.Fprintf(out, "  total:   %.2f %s\n", inv.GrandTotal(), inv.Currency)
}
