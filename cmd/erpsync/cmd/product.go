package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var fullSync bool

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Import ERP products into the catalog",
}

var productSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import products changed since the last sync",
	Long: `Import ERP products recorded since the last successful sync, or since
the baseline with --full. Product groups are recomputed afterwards.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res := app.Products.SyncProducts(cmd.Context(), !fullSync)
		if jsonOutput {
			if err := printJSON(res); err != nil {
				return err
			}
			if !res.Success {
				return errFailed
			}
			return nil
		}
		if !res.Success {
			return status(false, "product sync: %s", res.Error)
		}
		fmt.Printf("%s since %s\n", heading("Products:"), res.Since.Local().Format("2006-01-02"))
		w := newTable()
		fmt.Fprintf(w, "  read\t%d\n", res.ProductsRead)
		if res.ProductsSkipped > 0 {
			fmt.Fprintf(w, "  skipped (no group prefix)\t%d\n", res.ProductsSkipped)
		}
		fmt.Fprintf(w, "  categories created\t%d\n", res.CategoriesCreated)
		fmt.Fprintf(w, "  groups created / updated\t%d / %d\n", res.GroupsCreated, res.GroupsUpdated)
		fmt.Fprintf(w, "  SKUs created / updated\t%d / %d\n", res.SkusCreated, res.SkusUpdated)
		if err := w.Flush(); err != nil {
			return err
		}
		return status(true, "product sync finished in %s", res.Duration.Round(time.Millisecond))
	},
}

var productLastSyncCmd = &cobra.Command{
	Use:   "last-sync",
	Short: "Show the recorded sync timestamps",
	RunE: func(cmd *cobra.Command, _ []string) error {
		times, err := app.Products.LastSyncTimes(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(times)
		}
		w := newTable()
		fmt.Fprintf(w, "product baseline\t%s\n", formatTime(times.ProductBaseline))
		fmt.Fprintf(w, "product last sync\t%s\n", formatTime(times.ProductLastSync))
		fmt.Fprintf(w, "customer last sync\t%s\n", formatTime(times.CustomerLastSync))
		fmt.Fprintf(w, "salesperson last sync\t%s\n", formatTime(times.SalespersonLastSync))
		return w.Flush()
	},
}

func init() {
	productSyncCmd.Flags().BoolVar(&fullSync, "full", false, "import everything since the baseline")
	productCmd.AddCommand(productSyncCmd, productLastSyncCmd)
}
