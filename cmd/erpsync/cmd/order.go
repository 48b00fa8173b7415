package cmd

import (
	"fmt"

	appintegration "github.com/erp/syncengine/internal/application/integration"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Export website orders to the ERP",
}

var orderSyncCmd = &cobra.Command{
	Use:   "sync ORDER_ID",
	Short: "Export one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		res, err := app.Orders.SyncOrder(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printOrderResult(res)
	},
}

var orderRetryCmd = &cobra.Command{
	Use:   "retry ORDER_ID",
	Short: "Retry a failed order export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		res, err := app.Orders.RetryOrder(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printOrderResult(res)
	},
}

var orderBatchCmd = &cobra.Command{
	Use:   "batch ORDER_ID...",
	Short: "Export several orders in sequence",
	Long:  `Export several orders one after another. A failure does not stop the batch.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uuid.UUID, 0, len(args))
		for _, a := range args {
			id, err := parseID(a)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		batch, err := app.Orders.SyncOrders(cmd.Context(), ids)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(batch)
		}
		for i := range batch.Results {
			_ = printOrderResult(&batch.Results[i])
		}
		fmt.Printf("\n%s %d succeeded, %d failed\n", heading("Batch:"), batch.Succeeded, batch.Failed)
		if batch.Failed > 0 {
			return errFailed
		}
		return nil
	},
}

var orderFailedCmd = &cobra.Command{
	Use:   "failed",
	Short: "List orders whose export failed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		orders, err := app.Orders.ListFailedOrders(cmd.Context())
		if err != nil {
			return err
		}
		return printOrderSummaries(orders)
	},
}

var orderPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List orders not yet exported",
	RunE: func(cmd *cobra.Command, _ []string) error {
		orders, err := app.Orders.ListPendingOrders(cmd.Context())
		if err != nil {
			return err
		}
		return printOrderSummaries(orders)
	},
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid ID %q: %w", s, err)
	}
	return id, nil
}

func printOrderResult(res *appintegration.OrderSyncResult) error {
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
		return status(false, "order %s: %s", res.OrderID, res.Error)
	}
	var auto string
	if res.AutoSyncedCustomer || res.AutoSyncedSalesperson {
		auto = dim(fmt.Sprintf(" (provisioned customer=%t salesperson=%t)", res.AutoSyncedCustomer, res.AutoSyncedSalesperson))
	}
	return status(true, "order %s exported as %s%s", res.OrderID, res.ErpOrderNo, auto)
}

func printOrderSummaries(orders []appintegration.OrderSyncSummary) error {
	if jsonOutput {
		return printJSON(orders)
	}
	if len(orders) == 0 {
		fmt.Println(dim("No orders"))
		return nil
	}
	w := newTable()
	fmt.Fprintln(w, heading("ID\tNUMBER\tDATE\tSTATUS\tERP NO\tERROR"))
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.OrderNumber, o.OrderDate.Format("2006-01-02"),
			orDash(o.Status.String()), orDash(o.ErpOrderNo), orDash(o.ErpSyncError))
	}
	return w.Flush()
}

func init() {
	orderCmd.AddCommand(orderSyncCmd, orderRetryCmd, orderBatchCmd, orderFailedCmd, orderPendingCmd)
}
