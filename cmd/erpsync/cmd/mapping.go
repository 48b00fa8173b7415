package cmd

import (
	"fmt"

	appintegration "github.com/erp/syncengine/internal/application/integration"
	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/spf13/cobra"
)

var mappingKind string

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Manage website to ERP entity mappings",
	Long: `Manage the mappings between website customers or salespersons and
their ERP codes. Use --kind customer or --kind salesperson.`,
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mappings of a kind",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := integration.ParseEntityKind(mappingKind)
		if err != nil {
			return err
		}
		mappings, err := app.Mappings.List(cmd.Context(), kind)
		if err != nil {
			return err
		}
		return printMappings(mappings)
	},
}

var mappingGetCmd = &cobra.Command{
	Use:   "get LOCAL_ID",
	Short: "Show the mapping of a local entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := integration.ParseEntityKind(mappingKind)
		if err != nil {
			return err
		}
		localID, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := app.Mappings.Get(cmd.Context(), kind, localID)
		if err != nil {
			return err
		}
		return printMappings([]appintegration.MappingResponse{*m})
	},
}

var mappingCreateCmd = &cobra.Command{
	Use:   "create LOCAL_ID REMOTE_CODE",
	Short: "Map a local entity to an existing ERP code",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := integration.ParseEntityKind(mappingKind)
		if err != nil {
			return err
		}
		localID, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := app.Mappings.Create(cmd.Context(), kind, localID, args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(m)
		}
		return status(true, "%s %s mapped to %s (mapping %s)", kind, m.LocalID, m.RemoteCode, m.ID)
	},
}

var mappingUpdateCmd = &cobra.Command{
	Use:   "update MAPPING_ID REMOTE_CODE",
	Short: "Point a mapping at another ERP code",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := integration.ParseEntityKind(mappingKind)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := app.Mappings.Update(cmd.Context(), kind, id, args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(m)
		}
		return status(true, "mapping %s now points at %s", m.ID, m.RemoteCode)
	},
}

var mappingDeleteCmd = &cobra.Command{
	Use:   "delete MAPPING_ID",
	Short: "Delete a mapping; the ERP row is kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := integration.ParseEntityKind(mappingKind)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.Mappings.Delete(cmd.Context(), kind, id); err != nil {
			return err
		}
		return status(true, "mapping %s deleted", id)
	},
}

func printMappings(mappings []appintegration.MappingResponse) error {
	if jsonOutput {
		return printJSON(mappings)
	}
	if len(mappings) == 0 {
		fmt.Println(dim("No mappings"))
		return nil
	}
	w := newTable()
	fmt.Fprintln(w, heading("ID\tKIND\tLOCAL ID\tERP CODE\tUPDATED"))
	for _, m := range mappings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Kind, m.LocalID, m.RemoteCode, formatTime(&m.UpdatedAt))
	}
	return w.Flush()
}

func init() {
	mappingCmd.PersistentFlags().StringVar(&mappingKind, "kind", "", "entity kind: customer or salesperson")
	_ = mappingCmd.MarkPersistentFlagRequired("kind")

	mappingCmd.AddCommand(mappingListCmd, mappingGetCmd, mappingCreateCmd, mappingUpdateCmd, mappingDeleteCmd)
}
