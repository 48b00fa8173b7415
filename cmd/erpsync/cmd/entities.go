package cmd

import (
	"fmt"

	appintegration "github.com/erp/syncengine/internal/application/integration"
	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/spf13/cobra"
)

var (
	ensureKind  string
	confirmWipe bool
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Provision and maintain ERP customers and salespersons",
}

var entitiesEnsureCmd = &cobra.Command{
	Use:   "ensure LOCAL_ID",
	Short: "Create the ERP row of a local entity unless it is mapped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := integration.ParseEntityKind(ensureKind)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		res, err := app.Entities.EnsureRemoteCode(cmd.Context(), kind, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}
		if res.AlreadyExisted {
			return status(true, "%s %s already mapped to %s", kind, id, res.RemoteCode)
		}
		return status(true, "%s %s created in the ERP as %s", kind, id, res.RemoteCode)
	},
}

var entitiesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count test entities in the ERP and their mappings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		counts, err := app.Entities.TestEntityStats(cmd.Context())
		if err != nil {
			return err
		}
		return printCounts("Test entities", counts)
	},
}

var entitiesCleanupCmd = &cobra.Command{
	Use:   "cleanup-test",
	Short: "Delete test entities from the ERP and their mappings",
	Long: `Delete every ERP customer and salesperson whose code starts with the
configured test prefix, together with their mappings. Requires --yes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !confirmWipe {
			counts, err := app.Entities.TestEntityStats(cmd.Context())
			if err != nil {
				return err
			}
			if err := printCounts("Would delete", counts); err != nil {
				return err
			}
			fmt.Println(dim("Re-run with --yes to delete."))
			return nil
		}
		removed, err := app.Entities.CleanupTestEntities(cmd.Context())
		if err != nil {
			return err
		}
		return printCounts("Deleted", removed)
	},
}

func printCounts(title string, c *appintegration.TestEntityCounts) error {
	if jsonOutput {
		return printJSON(c)
	}
	fmt.Printf("%s prefix %q\n", heading(title+":"), c.Prefix)
	w := newTable()
	fmt.Fprintf(w, "  ERP customers\t%d\n", c.RemoteCustomers)
	fmt.Fprintf(w, "  ERP salespersons\t%d\n", c.RemoteSalespersons)
	fmt.Fprintf(w, "  customer mappings\t%d\n", c.CustomerMappings)
	fmt.Fprintf(w, "  salesperson mappings\t%d\n", c.SalespersonMappings)
	return w.Flush()
}

func init() {
	entitiesEnsureCmd.Flags().StringVar(&ensureKind, "kind", "", "entity kind: customer or salesperson")
	_ = entitiesEnsureCmd.MarkFlagRequired("kind")
	entitiesCleanupCmd.Flags().BoolVar(&confirmWipe, "yes", false, "really delete")

	entitiesCmd.AddCommand(entitiesEnsureCmd, entitiesStatsCmd, entitiesCleanupCmd)
}
