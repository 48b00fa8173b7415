package cmd

import (
	"fmt"
	"time"

	appintegration "github.com/erp/syncengine/internal/application/integration"
	"github.com/spf13/cobra"
)

var partnerCodes []string

var partnerCmd = &cobra.Command{
	Use:   "partner",
	Short: "Import ERP salespersons and customers",
}

var importSalespersonsCmd = &cobra.Command{
	Use:   "import-salespersons",
	Short: "Import ERP salespersons",
	Long: `Import ERP salespersons matching the configured account prefix, or
only those listed with --codes. New accounts get the default password.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var res *appintegration.ImportResult
		if cmd.Flags().Changed("codes") {
			res = app.Partners.ImportSalespersonsByCodes(cmd.Context(), partnerCodes)
		} else {
			res = app.Partners.ImportSalespersons(cmd.Context())
		}
		return printImport("salespersons", res)
	},
}

var importCustomersCmd = &cobra.Command{
	Use:   "import-customers",
	Short: "Import ERP customers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var res *appintegration.ImportResult
		if cmd.Flags().Changed("codes") {
			res = app.Partners.ImportCustomersByCodes(cmd.Context(), partnerCodes)
		} else {
			res = app.Partners.ImportCustomers(cmd.Context())
		}
		return printImport("customers", res)
	},
}

var previewSalespersonsCmd = &cobra.Command{
	Use:   "preview-salespersons",
	Short: "List the salespersons an import would touch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rows, err := app.Partners.PreviewSalespersons(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(rows)
		}
		w := newTable()
		fmt.Fprintln(w, heading("CODE\tNAME\tENGLISH NAME\tDEPARTMENT\tSTATE"))
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Code, orDash(r.Name), orDash(r.EnglishName), orDash(r.Department), newOrExisting(r.IsNew))
		}
		return w.Flush()
	},
}

var previewCustomersCmd = &cobra.Command{
	Use:   "preview-customers",
	Short: "List the customers an import would touch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rows, err := app.Partners.PreviewCustomers(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(rows)
		}
		w := newTable()
		fmt.Fprintln(w, heading("CODE\tNAME\tCOUNTRY\tSALESPERSON\tSTATE"))
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Code, orDash(r.Name), orDash(r.Country), orDash(r.SalespersonCode), newOrExisting(r.IsNew))
		}
		return w.Flush()
	},
}

func newOrExisting(isNew bool) string {
	if isNew {
		return okLabel("new")
	}
	return dim("existing")
}

func printImport(what string, res *appintegration.ImportResult) error {
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
		return status(false, "import %s: %s", what, res.Error)
	}
	return status(true, "imported %d %s: %d created, %d updated in %s",
		res.Total, what, res.Created, res.Updated, res.Duration.Round(time.Millisecond))
}

func init() {
	for _, c := range []*cobra.Command{importSalespersonsCmd, importCustomersCmd} {
		c.Flags().StringSliceVar(&partnerCodes, "codes", nil, "comma-separated ERP codes to import")
	}
	partnerCmd.AddCommand(importSalespersonsCmd, importCustomersCmd, previewSalespersonsCmd, previewCustomersCmd)
}
