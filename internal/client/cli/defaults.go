package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newDefaultsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Manage global defaults (seller identity, currency, tax)",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show cached defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Defaults.Cached(cmd.Context())
			if err != nil {
				return err
			}
			printDefaults(cmd, m)
			return nil
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch defaults from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Defaults.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			printDefaults(cmd, m)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set key=value [key=value...]",
		Short: "Save defaults to the store (admin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := make(map[string]string, len(args))
			for _, arg := range args {
				k, v, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("bad argument %q, want key=value", arg)
				}
				d[k] = v
			}
			m, err := app.Defaults.Save(cmd.Context(), d)
			if err != nil {
				return err
			}
			printDefaults(cmd, m)
			return nil
		},
	}

	cmd.AddCommand(show, refresh, set)
	return cmd
}

func printDefaults(cmd *cobra.Command, m map[string]string) {
	out := cmd.OutOrStdout()
	if len(m) == 0 {
		fmt.Fprintln(out, "no defaults")
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%-20s %s\n", k, m[k])
	}
}
