package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/hexa/pkg/core"
)

var listJSON bool

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := core.ParseOrderID(args[0])
		if err != nil {
			fatal("Error parsing id", err)
		}

		inst := openInstance(cmd)
		defer inst.Close()

		order, err := inst.Service.GetOrder(cmd.Context(), id)
		if err != nil {
			fatal("Error getting order", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order %s, total: %s\n", order.ID, order.Total)
		for _, item := range order.Items {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-30s %10s\n", item.Name, item.Price)
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all orders",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		inst := openInstance(cmd)
		defer inst.Close()

		orders, err := inst.Service.ListOrders(cmd.Context())
		if err != nil {
			fatal("Error listing orders", err)
		}

		if listJSON {
			if orders == nil {
				orders = []core.Order{}
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(orders); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, o := range orders {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d items\t%s\n", o.ID, len(o.Items), o.Total)
		}
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := core.ParseOrderID(args[0])
		if err != nil {
			fatal("Error parsing id", err)
		}

		inst := openInstance(cmd)
		defer inst.Close()

		if err := inst.Service.DeleteOrder(cmd.Context(), id); err != nil {
			fatal("Error deleting order", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order %s deleted.\n", id)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
