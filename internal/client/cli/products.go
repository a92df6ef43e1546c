package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/primesolution/invoicer/internal/client/models"
)

func newProductsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalogue",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the cached catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := app.Products.List(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(cmd, ps)
			return nil
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Replace the cache with the store's catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := app.Products.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetched %d products\n", len(ps))
			return nil
		},
	}

	var (
		id, description, descriptionEn string
		price                          float64
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Create or update a product in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Products.Save(cmd.Context(), models.Product{
				ID:            id,
				Description:   description,
				DescriptionEn: descriptionEn,
				Price:         price,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved product %s\n", p.ID)
			return nil
		},
	}
	save.Flags().StringVar(&id, "id", "", "product id, empty to create")
	save.Flags().StringVar(&description, "description", "", "product description")
	save.Flags().StringVar(&descriptionEn, "description-en", "", "english description")
	save.Flags().Float64Var(&price, "price", 0, "unit price")
	_ = save.MarkFlagRequired("description")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Products.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, refresh, save, del)
	return cmd
}

func printProducts(cmd *cobra.Command, ps []models.Product) {
	out := cmd.OutOrStdout()
	if len(ps) == 0 {
		fmt.Fprintln(out, "no products")
		return
	}
	for _, p := range ps {
		fmt.Fprintf(out, "%-12s %-40s %10.2f\n", p.ID, p.Description, p.Price)
	}
}
